// Package grpcserver exposes the book service over gRPC.
package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/achbook/internal/convert"
	"github.com/and161185/achbook/internal/errs"
	"github.com/and161185/achbook/internal/service"
)

// Server wires the book service into gRPC handlers.
type Server struct {
	books service.BookService
}

var _ BookServiceServer = (*Server)(nil)

// New constructs a gRPC server with the injected service.
func New(books service.BookService) *Server {
	return &Server{books: books}
}

// GiveBook delivers a book to the authenticated player. A cooldown denial is
// ResourceExhausted carrying the localized wait message and a RetryInfo detail.
func (s *Server) GiveBook(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	p, ok := PlayerFromCtx(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "no auth")
	}

	d, err := s.books.GiveBook(ctx, p)
	if err != nil {
		var ce *errs.CooldownError
		switch {
		case errors.As(err, &ce):
			return nil, cooldownStatus(ce)
		case errors.Is(err, errs.ErrUnavailable):
			return nil, status.Error(codes.Unavailable, "cooldown store unavailable")
		case errors.Is(err, errs.ErrMalformedRecordSequence):
			return nil, status.Error(codes.DataLoss, "malformed achievements")
		case errors.Is(err, errs.ErrNotFound):
			return nil, status.Error(codes.NotFound, "not found")
		default:
			return nil, status.Errorf(codes.Internal, "give book: %v", err)
		}
	}

	out, err := convert.ToProtoDelivery(d)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode book: %v", err)
	}
	return out, nil
}

// cooldownStatus attaches the remaining wait as RetryInfo.
func cooldownStatus(ce *errs.CooldownError) error {
	st := status.New(codes.ResourceExhausted, ce.Message)
	withInfo, err := st.WithDetails(&errdetails.RetryInfo{RetryDelay: durationpb.New(ce.Remaining)})
	if err != nil {
		return st.Err()
	}
	return withInfo.Err()
}
