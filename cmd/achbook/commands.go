package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"gopkg.in/yaml.v3"

	"github.com/and161185/achbook/internal/book"
	"github.com/and161185/achbook/internal/convert"
	"github.com/and161185/achbook/internal/lang"
	"github.com/and161185/achbook/internal/markup"
	"github.com/and161185/achbook/internal/model"
	grpcserver "github.com/and161185/achbook/internal/server/grpc"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "achbook",
		Short:        "Achievements book client",
		SilenceUsage: true,
	}
	root.AddCommand(newGiveCmd(), newPreviewCmd(), newTokenCmd())
	return root
}

func newGiveCmd() *cobra.Command {
	var (
		addr    string
		token   string
		caFile  string
		timeout time.Duration
		plain   bool
	)
	cmd := &cobra.Command{
		Use:   "give",
		Short: "Request a book from the server and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				token = os.Getenv("ACHBOOK_TOKEN")
			}
			if token == "" {
				return errors.New("missing token (--token or ACHBOOK_TOKEN)")
			}
			creds := insecure.NewCredentials()
			if caFile != "" {
				c, err := credentials.NewClientTLSFromFile(caFile, "")
				if err != nil {
					return fmt.Errorf("load ca: %w", err)
				}
				creds = c
			}
			cc, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
			if err != nil {
				return err
			}
			defer cc.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

			out, err := grpcserver.NewBookClient(cc).GiveBook(ctx)
			if err != nil {
				return describeRPCError(err)
			}
			d, err := convert.FromProtoDelivery(out)
			if err != nil {
				return err
			}
			printDelivery(cmd.OutOrStdout(), d, rendererFor(plain))
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8443", "server address")
	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	cmd.Flags().StringVar(&caFile, "tls-ca", "", "CA certificate (PEM); empty uses plaintext")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	cmd.Flags().BoolVar(&plain, "plain", false, "strip styles instead of rendering colors")
	return cmd
}

// previewFile is the YAML layout read by "preview": a flat list of
// name, description, date triples.
type previewFile struct {
	Author       string   `yaml:"author"`
	Achievements []string `yaml:"achievements"`
}

func newPreviewCmd() *cobra.Command {
	var (
		separator string
		langFile  string
		date      string
		plain     bool
	)
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Compile a book from a local YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var pf previewFile
			if err := yaml.Unmarshal(b, &pf); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			strs, err := lang.Load(langFile)
			if err != nil {
				return err
			}
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			doc, err := book.NewCompiler(separator, strs.BookDate).Compile(pf.Achievements, pf.Author, strs.BookName, date)
			if err != nil {
				return err
			}
			printDelivery(cmd.OutOrStdout(), model.Delivery{Book: doc}, rendererFor(plain))
			return nil
		},
	}
	cmd.Flags().StringVar(&separator, "separator", "", "line between page sections")
	cmd.Flags().StringVar(&langFile, "lang", "", "language file")
	cmd.Flags().StringVar(&date, "date", "", "creation date shown in the lore (default today)")
	cmd.Flags().BoolVar(&plain, "plain", false, "strip styles instead of rendering colors")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		key          string
		player       string
		name         string
		unrestricted bool
		ttl          time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if key == "" {
				return errors.New("missing --key")
			}
			id, err := uuid.FromString(player)
			if err != nil {
				return fmt.Errorf("bad --player: %w", err)
			}
			tok, err := grpcserver.IssueToken([]byte(key), model.Player{ID: id, Name: name, Unrestricted: unrestricted}, time.Now(), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "HS256 signing key")
	cmd.Flags().StringVar(&player, "player", "", "player UUID")
	cmd.Flags().StringVar(&name, "name", "", "player name")
	cmd.Flags().BoolVar(&unrestricted, "unrestricted", false, "grant "+grpcserver.PermUnrestricted)
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}

func rendererFor(plain bool) func(string) string {
	if plain {
		return markup.Strip
	}
	return markup.NewRenderer(nil).Render
}
