package main

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/udp-socket-manager/crypto"
	udppb "github.com/beka-birhanu/udp-socket-manager/encoding"
	udpsocket "github.com/beka-birhanu/udp-socket-manager/socket"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	socket_i "github.com/beka-birhanu/vinom-common/interfaces/socket"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-snake-server/api"
	"github.com/beka-birhanu/vinom-snake-server/config"
	"github.com/beka-birhanu/vinom-snake-server/service"
	"github.com/beka-birhanu/vinom-snake-server/udp"
	"github.com/beka-birhanu/vinom-snake-server/ws"
	"github.com/google/uuid"
	"google.golang.org/grpc"
)

// Global variables for dependencies
var (
	grpcServer         *grpc.Server
	httpServer         *http.Server
	udpSocketManager   socket_i.ServerSocketManager
	udpBridge          *udp.Bridge
	gameSessionManager *service.GameSessionManager
	appLogger          general_i.Logger
)

func initGameSessionManager() {
	gameLogger, err := logger.New("GAME-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game session manager logger: %v", err))
		os.Exit(1)
	}
	manager, err := service.NewGameSessionManager(
		&service.Config{
			Width:        config.Envs.GridWidth,
			Height:       config.Envs.GridHeight,
			InitialSpeed: config.Envs.InitialSpeed,
			Logger:       gameLogger,
		},
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game session manager: %v", err))
		os.Exit(1)
	}
	gameSessionManager = manager
	appLogger.Info("Game Session Manager initialized")
}

func initUDPSocketManager() {
	if config.Envs.UdpPort == 0 {
		appLogger.Info("UDP transport disabled")
		return
	}

	serverAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.UdpPort))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Resolving server address: %v", err))
		os.Exit(1)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Generating RSA key: %v", err))
		os.Exit(1)
	}

	serverLogger, err := logger.New("SERVER-SOCKET", config.ColorBlue, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating UDP socket manager logger: %v", err))
		os.Exit(1)
	}
	bridgeLogger, err := logger.New("UDP", config.ColorMagenta, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating UDP bridge logger: %v", err))
		os.Exit(1)
	}

	heartbeat := time.Duration(config.Envs.UDPHeartbeatExpiration) * time.Millisecond
	server, err := udpsocket.NewServerSocketManager(
		udpsocket.ServerConfig{
			ListenAddr:  serverAddr,
			AsymmCrypto: crypto.NewRSA(privateKey),
			SymmCrypto:  crypto.NewAESCBC(),
			Encoder:     &udppb.Protobuf{},
			HMAC:        &crypto.HMAC{},
			Logger:      serverLogger,
		},
		udpsocket.ServerWithReadBufferSize(config.Envs.UDPBufferSize),
		udpsocket.ServerWithHeartbeatExpiration(heartbeat),
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating server UDP socket manager: %v", err))
		os.Exit(1)
	}
	udpSocketManager = server

	udpBridge = udp.NewBridge(&udp.Config{
		Manager: gameSessionManager,
		Broadcast: func(ids []uuid.UUID, payload []byte) {
			udpSocketManager.BroadcastToClients(ids, udp.StateRecordType, payload)
		},
		PublicKey:   udpSocketManager.GetPublicKey(),
		Addr:        udpSocketManager.GetAddr(),
		IdleTimeout: heartbeat,
		Logger:      bridgeLogger,
	})
	udpSocketManager.SetClientRequestHandler(udpBridge.HandleRequest)
	udpSocketManager.SetClientAuthenticator(udpBridge)
	appLogger.Info("UDP Socket Manager initialized")
}

func initHTTPServer() {
	wsLogger, err := logger.New("WS", config.ColorYellow, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating websocket logger: %v", err))
		os.Exit(1)
	}
	handler := ws.NewHandler(gameSessionManager, wsLogger)
	httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.HTTPPort),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	appLogger.Info("WebSocket handler initialized")
}

func initSessionsController() {
	var tickets api.TicketIssuer
	if udpBridge != nil {
		tickets = udpBridge
	}

	grpcServer = grpc.NewServer()
	api.RegisterNewSessionsServer(grpcServer, gameSessionManager, tickets)
	appLogger.Info("Sessions controller initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	initGameSessionManager()
	initUDPSocketManager()
	initHTTPServer()
	initSessionsController()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if udpSocketManager != nil {
		go udpSocketManager.Serve()
		go udpBridge.Run(ctx)
		appLogger.Info(fmt.Sprintf("UDP Socket Manager serving at: %s", udpSocketManager.GetAddr()))
	}

	go func() {
		appLogger.Info(fmt.Sprintf("Serving WebSocket at: %s", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Serving HTTP: %v", err))
			stop()
		}
	}()

	addr := fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.GrpcPort)
	grpcConnListener, err := net.Listen("tcp", addr)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Listening tcp: %v", err))
		os.Exit(1)
	}
	go func() {
		appLogger.Info(fmt.Sprintf("Serving gRPC at: %s", addr))
		if err := grpcServer.Serve(grpcConnListener); err != nil {
			appLogger.Error(fmt.Sprintf("Serving gRPC: %v", err))
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	grpcServer.GracefulStop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Warning(fmt.Sprintf("Shutting down HTTP: %v", err))
	}

	gameSessionManager.StopAll()
	if udpSocketManager != nil {
		udpSocketManager.Stop()
	}
}
