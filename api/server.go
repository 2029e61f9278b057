package api

import (
	"context"
	"errors"

	"github.com/beka-birhanu/vinom-snake-server/service/i"
	"github.com/google/uuid"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrUDPDisabled = errors.New("udp transport is disabled")

// TicketIssuer hands out UDP player tickets.
type TicketIssuer interface {
	IssueTicket() (uuid.UUID, []byte, string)
}

type Server struct {
	gameSessionManager i.GameSessionManager
	tickets            TicketIssuer
}

// RegisterNewSessionsServer registers the sessions admin service and the
// standard health service. tickets may be nil when UDP is disabled.
func RegisterNewSessionsServer(gsr grpc.ServiceRegistrar, gsm i.GameSessionManager, tickets TicketIssuer) *health.Server {
	server := &Server{
		gameSessionManager: gsm,
		tickets:            tickets,
	}
	RegisterSessionsServer(gsr, server)

	hs := health.NewServer()
	hs.SetServingStatus(SessionsServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gsr, hs)
	return hs
}

func (s *Server) ListSessions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	infos := s.gameSessionManager.Sessions()
	sessions := make([]any, 0, len(infos))
	for _, info := range infos {
		sessions = append(sessions, map[string]any{
			"id":         info.ID.String(),
			"score":      info.Score,
			"alive":      info.Alive,
			"length":     info.Length,
			"speed":      info.Speed,
			"loopActive": info.LoopActive,
		})
	}

	resp, err := structpb.NewStruct(map[string]any{"sessions": sessions})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding sessions: %s", err)
	}
	return resp, nil
}

func (s *Server) OpenTicket(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if s.tickets == nil {
		return nil, status.Error(codes.Unavailable, ErrUDPDisabled.Error())
	}

	id, pubKey, addr := s.tickets.IssueTicket()
	resp, err := structpb.NewStruct(map[string]any{
		"playerID":     id.String(),
		"serverPubKey": string(pubKey),
		"serverAddr":   addr,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding ticket: %s", err)
	}
	return resp, nil
}
