package grpc_server

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func dial(t *testing.T, s *Server) healthpb.HealthClient {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.GracefulStop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	res, err := c.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("check %q: %v", service, err)
	}
	return res.Status
}

func TestHealthReflectsSessionAndPlatform(t *testing.T) {
	s := NewServer()
	c := dial(t, s)

	if got := check(t, c, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("process should be serving, got %s", got)
	}
	if got := check(t, c, SessionService); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("no session yet, got %s", got)
	}

	s.SetSessionActive(true)
	s.SetPlatformReachable(false)
	if got := check(t, c, SessionService); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("session should be serving, got %s", got)
	}
	if got := check(t, c, PlatformService); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("platform should be down, got %s", got)
	}
}
