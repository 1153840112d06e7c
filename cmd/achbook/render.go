package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/and161185/achbook/internal/model"
)

// printDelivery writes the book header, every page, and the delivery message.
func printDelivery(w io.Writer, d model.Delivery, render func(string) string) {
	fmt.Fprintf(w, "%s by %s\n", render(d.Book.Title), render(d.Book.Author))
	if d.Book.Lore != "" {
		fmt.Fprintln(w, render(d.Book.Lore))
	}
	for i, p := range d.Book.Pages {
		fmt.Fprintf(w, "\n-- page %d/%d --\n%s\n", i+1, len(d.Book.Pages), render(p))
	}
	if len(d.Effects) > 0 {
		names := make([]string, 0, len(d.Effects))
		for _, e := range d.Effects {
			names = append(names, e.Kind+":"+e.Name)
		}
		fmt.Fprintf(w, "\neffects: %s\n", strings.Join(names, ", "))
	}
	if d.Message != "" {
		fmt.Fprintln(w, render(d.Message))
	}
}

// describeRPCError turns a status into a user-facing error.
func describeRPCError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.ResourceExhausted:
		for _, d := range st.Details() {
			if ri, ok := d.(*errdetails.RetryInfo); ok && ri.GetRetryDelay().AsDuration() > 0 {
				return fmt.Errorf("cooldown: %s (retry in %s)", st.Message(), ri.GetRetryDelay().AsDuration().Round(time.Second))
			}
		}
		return fmt.Errorf("cooldown: %s", st.Message())
	case codes.Unavailable:
		return fmt.Errorf("server unavailable: %s", st.Message())
	case codes.Unauthenticated:
		return fmt.Errorf("not authenticated: %s", st.Message())
	default:
		return fmt.Errorf("%s: %s", st.Code(), st.Message())
	}
}
