package grpc_server

import (
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	PlatformService = "learnhub.Platform"
	SessionService  = "learnhub.Session"
)

// Server exposes the agent's health over gRPC: the process itself, whether
// the last catalog refresh reached the platform, and whether a session is active.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

func NewServer() *Server {
	s := &Server{
		grpc:   grpc.NewServer(),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(PlatformService, healthpb.HealthCheckResponse_UNKNOWN)
	s.health.SetServingStatus(SessionService, healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *Server) SetPlatformReachable(ok bool) {
	s.health.SetServingStatus(PlatformService, servingStatus(ok))
}

func (s *Server) SetSessionActive(ok bool) {
	s.health.SetServingStatus(SessionService, servingStatus(ok))
}

func (s *Server) Serve(lis net.Listener) error {
	log.Printf("gRPC health running on %s", lis.Addr())
	return s.grpc.Serve(lis)
}

func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func servingStatus(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}
