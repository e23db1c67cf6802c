package mpv

import (
	"bufio"
	"errors"
	"net"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/valyala/fastjson"
)

// fakeMpv answers IPC requests the way mpv does, with an event line before
// every reply. Each received command name is sent on commands.
func fakeMpv(t *testing.T, commands chan<- []string) string {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "mpv.sock")
	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadBytes('\n')
			if err != nil {
				return
			}
			v, err := fastjson.ParseBytes(line)
			if err != nil {
				return
			}
			var args []string
			for _, a := range v.GetArray("command") {
				args = append(args, string(a.GetStringBytes()))
			}
			commands <- args

			id := strconv.FormatUint(v.GetUint64("request_id"), 10)
			conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
			switch args[0] {
			case "set_property":
				if args[1] == "pause" {
					conn.Write([]byte(`{"request_id":` + id + `,"error":"success"}` + "\n"))
				} else {
					conn.Write([]byte(`{"request_id":` + id + `,"error":"property not found"}` + "\n"))
				}
			case "loadfile":
				conn.Write([]byte(`{"request_id":` + id + `,"error":"success"}` + "\n"))
			default:
				conn.Write([]byte(`{"request_id":` + id + `,"error":"property not found"}` + "\n"))
			}
		}
	}()
	return socket
}

func TestClientCommands(t *testing.T) {
	commands := make(chan []string, 4)
	c := NewClient(fakeMpv(t, commands))
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer c.Close()

	if err := c.LoadFile("/out/clip_2.mp4"); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	got := <-commands
	if len(got) != 3 || got[0] != "loadfile" || got[1] != "/out/clip_2.mp4" || got[2] != "replace" {
		t.Errorf("Unexpected loadfile command: %v", got)
	}

	if err := c.SetProperty("pause", false); err != nil {
		t.Fatalf("SetProperty failed: %v", err)
	}
	<-commands

	if err := c.SetProperty("nope", true); err == nil {
		t.Error("Expected mpv error to be returned")
	}
}

func TestClientNotConnected(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.LoadFile("x.mp4"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected, got %v", err)
	}
	if err := c.Connect(); !errors.Is(err, ErrSocketNotFound) {
		t.Errorf("Expected ErrSocketNotFound, got %v", err)
	}
}

func TestEncodeRequest(t *testing.T) {
	data, err := encodeRequest(7, "set_property", []any{"pause", false})
	if err != nil {
		t.Fatalf("encodeRequest failed: %v", err)
	}
	want := `{"command":["set_property","pause",false],"request_id":7}` + "\n"
	if string(data) != want {
		t.Errorf("encodeRequest() = %q, want %q", data, want)
	}

	if _, err := encodeRequest(1, "x", []any{struct{}{}}); err == nil {
		t.Error("Expected an error for an unsupported argument")
	}
}

func TestPreviewUsesRunningPlayer(t *testing.T) {
	commands := make(chan []string, 2)
	socket := fakeMpv(t, commands)

	if err := Preview("/out/clip_1.mp4", socket); err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if got := <-commands; got[0] != "loadfile" || got[1] != "/out/clip_1.mp4" {
		t.Errorf("Unexpected command: %v", got)
	}
	if got := <-commands; got[0] != "set_property" || got[1] != "pause" {
		t.Errorf("Expected the player to be unpaused, got %v", got)
	}
}
