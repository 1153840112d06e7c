package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/and161185/achbook/internal/errs"
	"github.com/and161185/achbook/internal/markup"
	"github.com/and161185/achbook/internal/model"
	grpcserver "github.com/and161185/achbook/internal/server/grpc"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "book.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestPreview_Plain(t *testing.T) {
	p := writeFile(t, `author: Steve
achievements:
  - Explorer
  - Visited 10 biomes
  - "2024-01-01"
  - Miner
  - "&aMined 100 ores"
  - "2024-01-02"
`)
	out, err := run(t, "preview", p, "--separator", "---", "--date", "2024-03-05", "--plain")
	require.NoError(t, err)
	require.Contains(t, out, "Achievements Book by Steve")
	require.Contains(t, out, "Book created on 2024-03-05.")
	require.Contains(t, out, "-- page 1/2 --\nExplorer\n---\nVisited 10 biomes\n---\n2024-01-01")
	require.Contains(t, out, "-- page 2/2 --\nMiner\n---\nMined 100 ores\n---\n2024-01-02")
}

func TestPreview_Malformed(t *testing.T) {
	p := writeFile(t, "achievements: [a, b]\n")
	_, err := run(t, "preview", p, "--plain")
	require.ErrorIs(t, err, errs.ErrMalformedRecordSequence)
}

func TestPreview_MissingFile(t *testing.T) {
	_, err := run(t, "preview", filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestToken_RoundTrip(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	out, err := run(t, "token", "--key", "k", "--player", id.String(), "--name", "Op", "--unrestricted")
	require.NoError(t, err)

	p, err := grpcserver.ParseToken([]byte("k"), strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, model.Player{ID: id, Name: "Op", Unrestricted: true}, p)
}

func TestToken_Validation(t *testing.T) {
	_, err := run(t, "token", "--player", uuid.Must(uuid.NewV4()).String())
	require.Error(t, err)

	_, err = run(t, "token", "--key", "k", "--player", "nope")
	require.Error(t, err)
}

func TestGive_NoToken(t *testing.T) {
	t.Setenv("ACHBOOK_TOKEN", "")
	_, err := run(t, "give")
	require.Error(t, err)
}

func TestPrintDelivery(t *testing.T) {
	var buf bytes.Buffer
	printDelivery(&buf, model.Delivery{
		Book:    model.CompiledDocument{Pages: []string{"§0A\n-\nB\n-\n§rC"}, Author: "Steve", Title: "Book", Lore: "§r§olore"},
		Effects: []model.Effect{{Kind: "sound", Name: "LEVEL_UP"}},
		Message: "§6done",
	}, markup.Strip)

	want := "Book by Steve\nlore\n\n-- page 1/1 --\nA\n-\nB\n-\nC\n\neffects: sound:LEVEL_UP\ndone\n"
	require.Equal(t, want, buf.String())
}

func TestDescribeRPCError(t *testing.T) {
	err := describeRPCError(status.Error(codes.ResourceExhausted, "wait 5"))
	require.EqualError(t, err, "cooldown: wait 5")

	st, derr := status.New(codes.ResourceExhausted, "wait 5").
		WithDetails(&errdetails.RetryInfo{RetryDelay: durationpb.New(3 * time.Second)})
	require.NoError(t, derr)
	err = describeRPCError(st.Err())
	require.EqualError(t, err, "cooldown: wait 5 (retry in 3s)")

	err = describeRPCError(status.Error(codes.Unavailable, "cooldown store unavailable"))
	require.EqualError(t, err, "server unavailable: cooldown store unavailable")

	err = describeRPCError(status.Error(codes.Unauthenticated, "bad token"))
	require.EqualError(t, err, "not authenticated: bad token")

	err = describeRPCError(status.Error(codes.DataLoss, "malformed achievements"))
	require.EqualError(t, err, "DataLoss: malformed achievements")
}
