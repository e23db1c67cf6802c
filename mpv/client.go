// Package mpv previews clips in an mpv window and drives it over its JSON
// IPC socket.
package mpv

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/valyala/fastjson"
)

var (
	// DefaultSocketPath is the Unix socket mpv is started with for IPC.
	DefaultSocketPath = filepath.Join(os.TempDir(), "stream-auto-editor-mpv.sock")

	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mpv: not connected")
	// ErrSocketNotFound is returned when nothing listens on the socket.
	ErrSocketNotFound = errors.New("mpv: socket not found - is mpv running with --input-ipc-server?")
	// requestID is a global counter for generating unique request IDs.
	requestID uint64
)

// Client is an mpv IPC client that communicates via Unix socket.
type Client struct {
	socketPath string
	conn       net.Conn
	reader     *bufio.Reader
	parser     fastjson.Parser
	mu         sync.Mutex
}

// NewClient creates a new mpv IPC client.
// If socketPath is empty, DefaultSocketPath is used.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	return &Client{
		socketPath: socketPath,
	}
}

// Connect establishes a connection to the mpv IPC socket.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return ErrSocketNotFound
	}

	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// Close closes the connection to mpv.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}

// SocketPath returns the socket path this client is configured to use.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// LoadFile replaces whatever mpv is playing with path.
func (c *Client) LoadFile(path string) error {
	_, err := c.sendCommand("loadfile", path, "replace")
	return err
}

// SetProperty sets the value of an mpv property such as "pause".
func (c *Client) SetProperty(name string, value any) error {
	_, err := c.sendCommand("set_property", name, value)
	return err
}

// sendCommand sends {"command": [command, args...], "request_id": <id>} as a
// newline-terminated line and returns the JSON of the reply's data field.
func (c *Client) sendCommand(command string, args ...any) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	reqID := atomic.AddUint64(&requestID, 1)
	data, err := encodeRequest(reqID, command, args)
	if err != nil {
		return nil, err
	}
	if _, err := c.conn.Write(data); err != nil {
		return nil, fmt.Errorf("mpv: failed to send command: %w", err)
	}

	// Events share the socket; read until our reply shows up.
	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("mpv: failed to read response: %w", err)
		}

		resp, err := c.parser.ParseBytes(line)
		if err != nil {
			continue
		}
		if resp.GetUint64("request_id") != reqID {
			continue
		}
		if e := string(resp.GetStringBytes("error")); e != "" && e != "success" {
			return nil, fmt.Errorf("mpv: %s", e)
		}
		if d := resp.Get("data"); d != nil {
			return d.MarshalTo(nil), nil
		}
		return nil, nil
	}
}

func encodeRequest(id uint64, command string, args []any) ([]byte, error) {
	var a fastjson.Arena
	cmd := a.NewArray()
	cmd.SetArrayItem(0, a.NewString(command))
	for i, arg := range args {
		var v *fastjson.Value
		switch x := arg.(type) {
		case string:
			v = a.NewString(x)
		case bool:
			if x {
				v = a.NewTrue()
			} else {
				v = a.NewFalse()
			}
		case int:
			v = a.NewNumberInt(x)
		case float64:
			v = a.NewNumberFloat64(x)
		default:
			return nil, fmt.Errorf("mpv: unsupported argument type %T", arg)
		}
		cmd.SetArrayItem(i+1, v)
	}

	req := a.NewObject()
	req.Set("command", cmd)
	req.Set("request_id", a.NewNumberString(strconv.FormatUint(id, 10)))
	return append(req.MarshalTo(nil), '\n'), nil
}
