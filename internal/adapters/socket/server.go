package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"fortio.org/log"
)

// Service is what the daemon serves. Thread safety is the implementor's
// responsibility: handlers run concurrently, one goroutine per connection.
type Service interface {
	Convert(params ConvertParams) (ConvertResult, error)
	Scan(params ScanParams) (ScanResult, error)
	Health() HealthResult
	Dictionaries() (DictionariesResult, error)
	Reload(name string) (ReloadResult, error)
}

// Server is the daemon that listens on a Unix socket and serves conversions.
type Server struct {
	svc      Service
	listener net.Listener
	sockPath string
	started  time.Time

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server backed by svc.
func NewServer(svc Service, sockPath string) *Server {
	return &Server{
		svc:        svc,
		sockPath:   sockPath,
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. It handles stale sockets by
// attempting a connection first. If the connection fails, the stale socket
// is removed before binding.
func (s *Server) Start() error {
	// Handle stale socket
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running at %s", s.sockPath)
		}
		log.Warnf("Removing stale socket %s", s.sockPath)
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.started = time.Now()
	log.S(log.Info, "daemon listening", log.Str("socket", s.sockPath))

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop gracefully shuts down the server, closing the listener and removing the socket file.
// Idempotent: safe to call after a remote shutdown and again on a signal.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.sockPath)
		log.LogVf("daemon stopped, removed %s", s.sockPath)
	})
	return nil
}

// ShutdownCh returns a channel that is closed when a remote shutdown request
// is received. The daemon's main goroutine should select on this alongside
// OS signals so the process actually exits after a remote stop.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), maxMessage)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		start := time.Now()
		resp := s.handleRequest(req)
		log.LogVf("%s %s in %v", req.Method, req.ID, time.Since(start))
		s.writeResponse(conn, resp)

		if req.Method == MethodShutdown {
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.S(log.Warning, "connection read failed", log.Str("err", err.Error()))
	}
}

// maxMessage bounds one request line; text to convert travels inline.
const maxMessage = 16 * 1024 * 1024

func (s *Server) handleRequest(req Request) Response {
	switch req.Method {
	case MethodConvert:
		return s.handleConvert(req)
	case MethodScan:
		return s.handleScan(req)
	case MethodHealth:
		return s.handleHealth(req)
	case MethodDictionaries:
		return s.handleDictionaries(req)
	case MethodReload:
		return s.handleReload(req)
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

// decodeParams re-marshals the loosely typed params into a concrete struct.
func decodeParams(params interface{}, target interface{}) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func (s *Server) handleConvert(req Request) Response {
	var params ConvertParams
	if err := decodeParams(req.Params, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid convert params"}
	}
	start := time.Now()
	result, err := s.svc.Convert(params)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	result.Elapsed = time.Since(start).String()
	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleScan(req Request) Response {
	var params ScanParams
	if err := decodeParams(req.Params, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid scan params"}
	}
	start := time.Now()
	result, err := s.svc.Scan(params)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	result.Elapsed = time.Since(start).String()
	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleHealth(req Request) Response {
	result := s.svc.Health()
	result.Uptime = time.Since(s.started).Round(time.Second).String()
	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleDictionaries(req Request) Response {
	result, err := s.svc.Dictionaries()
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleReload(req Request) Response {
	var params ReloadParams
	if req.Params != nil {
		if err := decodeParams(req.Params, &params); err != nil {
			return Response{ID: req.ID, Error: "invalid reload params"}
		}
	}
	result, err := s.svc.Reload(params.Name)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(Response{ID: resp.ID, Error: "marshal response failed"})
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		log.LogVf("write response: %v", err)
	}
}
