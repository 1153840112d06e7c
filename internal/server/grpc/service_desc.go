package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// BookServiceName is the fully qualified gRPC service name.
	BookServiceName = "achbook.v1.BookService"
	// GiveBookMethod is the full method name of GiveBook.
	GiveBookMethod = "/" + BookServiceName + "/GiveBook"
)

// BookServiceServer is the server API of achbook.v1.BookService. Messages are
// well-known types; the response layout is defined by the convert package.
type BookServiceServer interface {
	GiveBook(ctx context.Context, in *emptypb.Empty) (*structpb.Struct, error)
}

// BookServiceDesc describes achbook.v1.BookService for grpc.Server.RegisterService.
var BookServiceDesc = grpc.ServiceDesc{
	ServiceName: BookServiceName,
	HandlerType: (*BookServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GiveBook", Handler: giveBookHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "achbook/v1/book.proto",
}

// RegisterBookServiceServer registers srv on s.
func RegisterBookServiceServer(s grpc.ServiceRegistrar, srv BookServiceServer) {
	s.RegisterService(&BookServiceDesc, srv)
}

func giveBookHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookServiceServer).GiveBook(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GiveBookMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BookServiceServer).GiveBook(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// BookClient calls achbook.v1.BookService.
type BookClient struct {
	cc grpc.ClientConnInterface
}

// NewBookClient wraps a client connection.
func NewBookClient(cc grpc.ClientConnInterface) *BookClient { return &BookClient{cc: cc} }

// GiveBook requests a book for the player identified by the call credentials.
func (c *BookClient) GiveBook(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GiveBookMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
