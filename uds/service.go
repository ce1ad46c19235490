// Package uds serves admin commands over a unix domain socket, one command per line.
package uds

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"net"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/daddykotex/pdf-edit-bulk/svc"
)

type Service struct {
	Ctx        context.Context    // Service Context
	cancel     context.CancelFunc // Service Context CancelFunc
	mu         sync.Mutex
	state      int        // internal service state
	done       chan error // Shutdown Error Channel
	SocketPath string
	CmdMap     map[string]CmdHnd
	listener   net.Listener
}

// Ensure uds.Service implements svc.Service
var _ svc.Service = (*Service)(nil)

func (s *Service) Name() string {
	return "UDSService"
}

func NewService(parentCtx context.Context, sockPath string, cmdMap map[string]CmdHnd) *Service {
	svcCtx, svcCancel := context.WithCancel(parentCtx)
	return &Service{
		Ctx:        svcCtx,
		cancel:     svcCancel,
		state:      svc.StateREADY,
		done:       make(chan error, 1),
		SocketPath: sockPath,
		CmdMap:     cmdMap,
	}
}

// Start the unix socket service in the background.
// Bootstrapping errors are returned immediately.
// Runtime errors are pushed into Done().
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != svc.StateREADY {
		return fmt.Errorf("cannot start. not ready")
	}
	// clean up old socket if any
	_ = os.Remove(s.SocketPath)
	listener, err := net.Listen("unix", s.SocketPath)
	if err != nil {
		return fmt.Errorf("listen(%q) failed: %w", s.SocketPath, err)
	}
	// tighten permissions immediately after binding
	if err = os.Chmod(s.SocketPath, 0600); err != nil {
		_ = listener.Close()
		_ = os.Remove(s.SocketPath)
		return fmt.Errorf("chmod(%q) failed: %w", s.SocketPath, err)
	}
	s.listener = listener
	s.state = svc.StateRUNNING
	go s.run()
	return nil
}

func (s *Service) Stop() {
	s.cancel()
	s.mu.Lock()
	s.state = svc.StateSTOPPED
	s.mu.Unlock()
	log.Println("[INFO][UDS] service stopped")
}

func (s *Service) Done() <-chan error {
	return s.done
}

// run - internal run loop
func (s *Service) run() {
	go func() {
		<-s.Ctx.Done()
		log.Printf("[INFO][UDS] stopping")
		if err := s.listener.Close(); err != nil {
			log.Printf("[ERROR][UDS] cannot close listener: %v", err)
		}
	}()

	log.Printf("[INFO][UDS] listening on %q ...", s.SocketPath)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				log.Printf("[INFO][UDS] socket closed")
				// To avoid TOCTOU race, just try removing before checking if it exists.
				if err := os.Remove(s.SocketPath); err != nil && !os.IsNotExist(err) {
					log.Printf("[ERROR][UDS] cannot remove socket file: %v", err)
				}
				s.done <- nil // also a clean shutdown
				return
			}
			// For transient errors, don't kill the loop
			log.Println("[ERROR][UDS] accept failed:", err)
			continue
		}
		go s.handleConn(conn)
	}
}

func (s *Service) handleConn(c net.Conn) {
	stop := context.AfterFunc(s.Ctx, func() { _ = c.Close() })
	defer stop()
	defer func() {
		if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Printf("[ERROR][UDS] closing connection: %v", err)
		}
	}()

	reader := bufio.NewReader(io.LimitReader(c, 1<<20)) // 1 MB max per connection
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Printf("[ERROR][UDS] read error: %v", err)
			}
			return
		}
		if !s.exec(c, strings.Fields(line)) {
			return
		}
	}
}

// exec runs one command line and reports whether the connection stays open.
// A known command closes the connection once it has replied.
func (s *Service) exec(w io.Writer, args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "quit":
		return false
	case "help":
		s.help(w)
		return true
	}
	hnd, ok := s.CmdMap[args[0]]
	if !ok {
		_, _ = fmt.Fprintf(w, "unknown command: %s\n", args[0])
		return true // give another chance
	}
	log.Printf("[INFO][UDS] requested command %q", strings.Join(args, " "))
	if err := hnd.Fn(s.Ctx, args[1:], w); err != nil {
		log.Printf("[ERROR][UDS] command %s: %v", args[0], err)
		_, _ = fmt.Fprintf(w, "error: %v\n", err)
		if hnd.Usage != "" {
			_, _ = fmt.Fprintf(w, "usage: %s\n", hnd.Usage)
		}
	}
	return false
}

func (s *Service) help(w io.Writer) {
	for _, name := range slices.Sorted(maps.Keys(s.CmdMap)) {
		_, _ = fmt.Fprintf(w, "%-20s %s\n", name, s.CmdMap[name].Desc)
	}
}
