package chart

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service names as registered on the server and in the health service.
const (
	ChartServiceName   = "ziwei.chart.v1.ChartService"
	AccountServiceName = "ziwei.chart.v1.AccountService"
)

// Full method names.
const (
	MethodCalculateChart = "/" + ChartServiceName + "/CalculateChart"
	MethodSaveChart      = "/" + ChartServiceName + "/SaveChart"
	MethodUpdateChart    = "/" + ChartServiceName + "/UpdateChart"
	MethodGetChart       = "/" + ChartServiceName + "/GetChart"
	MethodListCharts     = "/" + ChartServiceName + "/ListCharts"
	MethodDeleteChart    = "/" + ChartServiceName + "/DeleteChart"
	MethodInterpretChart = "/" + ChartServiceName + "/InterpretChart"
	MethodRegister       = "/" + AccountServiceName + "/Register"
	MethodLogin          = "/" + AccountServiceName + "/Login"
)

// ChartServer is the server API for ziwei.chart.v1.ChartService.
type ChartServer interface {
	CalculateChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCharts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	InterpretChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// AccountServer is the server API for ziwei.chart.v1.AccountService.
type AccountServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a Struct-in, Struct-out method to grpc.MethodHandler.
func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ChartServiceDesc describes ziwei.chart.v1.ChartService.
var ChartServiceDesc = grpc.ServiceDesc{
	ServiceName: ChartServiceName,
	HandlerType: (*ChartServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CalculateChart", Handler: unaryHandler(MethodCalculateChart, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ChartServer).CalculateChart(ctx, in)
		})},
		{MethodName: "SaveChart", Handler: unaryHandler(MethodSaveChart, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ChartServer).SaveChart(ctx, in)
		})},
		{MethodName: "UpdateChart", Handler: unaryHandler(MethodUpdateChart, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ChartServer).UpdateChart(ctx, in)
		})},
		{MethodName: "GetChart", Handler: unaryHandler(MethodGetChart, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ChartServer).GetChart(ctx, in)
		})},
		{MethodName: "ListCharts", Handler: unaryHandler(MethodListCharts, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ChartServer).ListCharts(ctx, in)
		})},
		{MethodName: "DeleteChart", Handler: unaryHandler(MethodDeleteChart, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ChartServer).DeleteChart(ctx, in)
		})},
		{MethodName: "InterpretChart", Handler: unaryHandler(MethodInterpretChart, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(ChartServer).InterpretChart(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ziwei/chart/v1/chart.proto",
}

// AccountServiceDesc describes ziwei.chart.v1.AccountService.
var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(AccountServer).Register(ctx, in)
		})},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, func(srv any, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return srv.(AccountServer).Login(ctx, in)
		})},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ziwei/chart/v1/account.proto",
}

// RegisterChartServer registers srv on s.
func RegisterChartServer(s grpc.ServiceRegistrar, srv ChartServer) {
	s.RegisterService(&ChartServiceDesc, srv)
}

// RegisterAccountServer registers srv on s.
func RegisterAccountServer(s grpc.ServiceRegistrar, srv AccountServer) {
	s.RegisterService(&AccountServiceDesc, srv)
}

// Client calls both services over one connection.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps a connection.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Call invokes one unary method with a JSON-shaped request.
func (c *Client) Call(ctx context.Context, method string, request map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	in, err := structpb.NewStruct(request)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
