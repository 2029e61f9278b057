package api

import (
	"context"

	grpc "google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const SessionsServiceName = "snake.v1.Sessions"

const (
	Sessions_ListSessions_FullMethodName = "/snake.v1.Sessions/ListSessions"
	Sessions_OpenTicket_FullMethodName   = "/snake.v1.Sessions/OpenTicket"
)

// SessionsServer is the admin service over the game sessions. Messages are
// well-known protobuf types so the service needs no generated code.
type SessionsServer interface {
	ListSessions(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	OpenTicket(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterSessionsServer(s grpc.ServiceRegistrar, srv SessionsServer) {
	s.RegisterService(&Sessions_ServiceDesc, srv)
}

func _Sessions_ListSessions_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionsServer).ListSessions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sessions_ListSessions_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionsServer).ListSessions(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _Sessions_OpenTicket_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionsServer).OpenTicket(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: Sessions_OpenTicket_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionsServer).OpenTicket(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var Sessions_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SessionsServiceName,
	HandlerType: (*SessionsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListSessions",
			Handler:    _Sessions_ListSessions_Handler,
		},
		{
			MethodName: "OpenTicket",
			Handler:    _Sessions_OpenTicket_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "snake/v1/sessions.proto",
}
