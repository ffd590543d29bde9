package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewGRPCServer returns a gRPC server instrumented with otelgrpc that serves only the health service.
func NewGRPCServer(hs healthpb.HealthServer) *grpc.Server {
	s := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	RegisterServices(s, hs)
	return s
}

// RegisterServices registers the gRPC services with s.
//
//   - grpc.health.v1.Health → internal/health/handler (status published by handler.Monitor)
func RegisterServices(s grpc.ServiceRegistrar, hs healthpb.HealthServer) {
	healthpb.RegisterHealthServer(s, hs)
}
