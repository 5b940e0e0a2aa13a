// catalog-service/internal/grpc/service_desc.go
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName - полное имя gRPC сервиса для межсервисных вызовов.
const ServiceName = "catalog.v1.MovieInterService"

const (
	checkMovieExistsMethod = "/" + ServiceName + "/CheckMovieExists"
	getMovieInfoMethod     = "/" + ServiceName + "/GetMovieInfo"
)

// MovieInterServiceServer - серверная сторона сервиса.
// Сообщения - well-known типы protobuf, поэтому отдельный .proto не нужен.
type MovieInterServiceServer interface {
	CheckMovieExists(ctx context.Context, movieID *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	GetMovieInfo(ctx context.Context, movieID *wrapperspb.StringValue) (*structpb.Struct, error)
}

// MovieInterServiceDesc описывает сервис для grpc.Server.RegisterService.
var MovieInterServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MovieInterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CheckMovieExists", Handler: checkMovieExistsHandler},
		{MethodName: "GetMovieInfo", Handler: getMovieInfoHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterMovieInterServiceServer регистрирует реализацию на gRPC сервере.
func RegisterMovieInterServiceServer(s grpc.ServiceRegistrar, srv MovieInterServiceServer) {
	s.RegisterService(&MovieInterServiceDesc, srv)
}

func checkMovieExistsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MovieInterServiceServer).CheckMovieExists(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: checkMovieExistsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MovieInterServiceServer).CheckMovieExists(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getMovieInfoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MovieInterServiceServer).GetMovieInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getMovieInfoMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MovieInterServiceServer).GetMovieInfo(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
