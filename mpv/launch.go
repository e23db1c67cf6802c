package mpv

import (
	"errors"
	"os/exec"

	"github.com/user/stream-auto-editor/deps"
)

// LaunchMpv starts mpv with the specified file and IPC socket enabled.
// It checks that mpv is installed first and returns an error with install link if not.
// Returns the *exec.Cmd for the running process which can be used for cleanup.
func LaunchMpv(path, socketPath string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}

	cmd := exec.Command(deps.Mpv(),
		"--input-ipc-server="+socketPath,
		"--force-window=yes",
		"--keep-open=yes",
		path,
	)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	// Reap the process when the window closes.
	go cmd.Wait()

	return cmd, nil
}

// Preview shows path in the mpv window listening on socketPath, starting
// one if none is running.
func Preview(path, socketPath string) error {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	client := NewClient(socketPath)
	if err := client.Connect(); err == nil {
		defer client.Close()
		if err := client.LoadFile(path); err == nil {
			// a player left on a finished clip stays paused after loadfile
			return client.SetProperty("pause", false)
		}
	} else if !errors.Is(err, ErrSocketNotFound) {
		return err
	}

	_, err := LaunchMpv(path, socketPath)
	return err
}
