package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// The report service has no .proto of its own: requests and responses are
// protobuf well-known types, so the descriptors below are written by hand in
// the same shape protoc-gen-go-grpc would produce.

const (
	reportServiceName = "hiring.v1.ReportService"

	ReportService_EmployeesByJobDepartment_FullMethodName     = "/hiring.v1.ReportService/EmployeesByJobDepartment"
	ReportService_DepartmentsWithHighestHiring_FullMethodName = "/hiring.v1.ReportService/DepartmentsWithHighestHiring"
	ReportService_QueryTable_FullMethodName                   = "/hiring.v1.ReportService/QueryTable"
)

// ReportServiceServer is the server API for hiring.v1.ReportService.
type ReportServiceServer interface {
	EmployeesByJobDepartment(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	DepartmentsWithHighestHiring(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	// QueryTable expects a struct with a string field "table".
	QueryTable(context.Context, *structpb.Struct) (*structpb.ListValue, error)
}

// ReportServiceClient is the client API for hiring.v1.ReportService.
type ReportServiceClient interface {
	EmployeesByJobDepartment(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	DepartmentsWithHighestHiring(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	QueryTable(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type reportServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReportServiceClient(cc grpc.ClientConnInterface) ReportServiceClient {
	return &reportServiceClient{cc}
}

func (c *reportServiceClient) EmployeesByJobDepartment(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ReportService_EmployeesByJobDepartment_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reportServiceClient) DepartmentsWithHighestHiring(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ReportService_DepartmentsWithHighestHiring_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reportServiceClient) QueryTable(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ReportService_QueryTable_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&reportServiceDesc, srv)
}

func _ReportService_EmployeesByJobDepartment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServiceServer).EmployeesByJobDepartment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReportService_EmployeesByJobDepartment_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReportServiceServer).EmployeesByJobDepartment(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReportService_DepartmentsWithHighestHiring_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServiceServer).DepartmentsWithHighestHiring(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReportService_DepartmentsWithHighestHiring_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReportServiceServer).DepartmentsWithHighestHiring(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReportService_QueryTable_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServiceServer).QueryTable(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReportService_QueryTable_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReportServiceServer).QueryTable(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var reportServiceDesc = grpc.ServiceDesc{
	ServiceName: reportServiceName,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "EmployeesByJobDepartment",
			Handler:    _ReportService_EmployeesByJobDepartment_Handler,
		},
		{
			MethodName: "DepartmentsWithHighestHiring",
			Handler:    _ReportService_DepartmentsWithHighestHiring_Handler,
		},
		{
			MethodName: "QueryTable",
			Handler:    _ReportService_QueryTable_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hiring/v1/report.proto",
}
