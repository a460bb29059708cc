package bot

import (
	"fmt"
	"log"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// healthServer exposes the standard gRPC health service. A nil
// *healthServer is valid and does nothing.
type healthServer struct {
	srv    *grpc.Server
	health *health.Server
	lis    net.Listener
}

func startHealthServer(addr string) (*healthServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for health checks on %s: %w", addr, err)
	}

	hs := &healthServer{
		srv:    grpc.NewServer(),
		health: health.NewServer(),
		lis:    lis,
	}
	hs.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(hs.srv, hs.health)

	go func() {
		if err := hs.srv.Serve(lis); err != nil && err != grpc.ErrServerStopped {
			log.Printf("[gRPC] health server stopped: %v", err)
		}
	}()

	log.Printf("[gRPC] health service listening on %s", lis.Addr())
	return hs, nil
}

// Addr returns the address the server listens on.
func (h *healthServer) Addr() string {
	if h == nil {
		return ""
	}
	return h.lis.Addr().String()
}

// SetServing flips the overall health status.
func (h *healthServer) SetServing(serving bool) {
	if h == nil {
		return
	}
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
}

// Stop shuts the health service down.
func (h *healthServer) Stop() {
	if h == nil {
		return
	}
	h.health.Shutdown()
	h.srv.GracefulStop()
}
