package grpcserver

import (
	"context"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"hiringMetrics/internal/apperror"
	"hiringMetrics/internal/config"
	"hiringMetrics/internal/service"
)

// Server implements hiring.v1.ReportService on top of the hiring service.
type Server struct {
	Service service.Manager
}

func (s *Server) EmployeesByJobDepartment(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	report, err := s.Service.EmployeesByJobDepartment(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	items := make([]interface{}, 0, len(report))
	for _, r := range report {
		items = append(items, map[string]interface{}{
			"department": r.Department,
			"job":        r.Job,
			"Q1":         r.Q1,
			"Q2":         r.Q2,
			"Q3":         r.Q3,
			"Q4":         r.Q4,
		})
	}
	return newList(items)
}

func (s *Server) DepartmentsWithHighestHiring(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	report, err := s.Service.DepartmentsWithHighestHiring(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	items := make([]interface{}, 0, len(report))
	for _, r := range report {
		items = append(items, map[string]interface{}{
			"id":         r.ID,
			"department": r.Department,
			"hired":      r.Hired,
		})
	}
	return newList(items)
}

func (s *Server) QueryTable(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	table := req.GetFields()["table"].GetStringValue()
	if table == "" {
		return nil, status.Error(codes.InvalidArgument, "table is required")
	}
	rows, err := s.Service.Query(ctx, table)
	if err != nil {
		return nil, toStatus(err)
	}
	items := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]interface{}, len(row))
		for col, v := range row {
			if v == nil {
				m[col] = nil
				continue
			}
			m[col] = *v
		}
		items = append(items, m)
	}
	return newList(items)
}

func newList(items []interface{}) (*structpb.ListValue, error) {
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return list, nil
}

func toStatus(err error) error {
	switch apperror.GetCode(err) {
	case apperror.CodeInvalidRequest, apperror.CodeUnknownTable:
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Errorf(codes.Internal, "%v", err)
	}
}

// LoggingInterceptor logs every unary call with its status code and latency.
func LoggingInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Printf("grpc %s %s %s", info.FullMethod, status.Code(err), time.Since(start))
		return resp, err
	}
}

// NewServer builds a gRPC server with the report and health services registered.
func NewServer(svc service.Manager, logger *log.Logger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logger)))
	RegisterReportServiceServer(srv, &Server{Service: svc})

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(reportServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv, hs
}

// StartGRPC starts the gRPC server on cfg.GRPC.Address and returns a shutdown function.
func StartGRPC(cfg *config.Config, svc service.Manager, logger *log.Logger) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return nil, err
	}

	srv, hs := NewServer(svc, logger)
	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Printf("grpc serve: %v", err)
		}
	}()

	return func(ctx context.Context) error {
		hs.Shutdown()
		done := make(chan struct{})
		go func() { srv.GracefulStop(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			srv.Stop()
			return ctx.Err()
		}
	}, nil
}
