package commands

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/diogo/chatbot/internal/api"
	"github.com/diogo/chatbot/internal/chat"
	"github.com/diogo/chatbot/internal/config"
	"github.com/diogo/chatbot/internal/store"
	"github.com/diogo/chatbot/internal/tui"
)

// mockTUI records what the commands hand to the TUI
type mockTUI struct {
	chatStore   *store.MessageStore
	chatSender  chat.Sender
	chatOpts    tui.Options
	chatErr     error
	configCfg   *config.Config
	configCalls int
}

func (m *mockTUI) RunChat(st *store.MessageStore, sender chat.Sender, opts tui.Options) error {
	m.chatStore = st
	m.chatSender = sender
	m.chatOpts = opts
	return m.chatErr
}

func (m *mockTUI) RunConfig(cfg config.Config) error {
	m.configCalls++
	m.configCfg = &cfg
	return nil
}

type testEnv struct {
	deps   *Dependencies
	client *api.MockClient
	tui    *mockTUI
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	gotCfg config.Config
}

// newTestEnv isolates the config directory and wires mocks into Dependencies
func newTestEnv(t *testing.T, client *api.MockClient, tty bool) *testEnv {
	t.Helper()
	t.Setenv(config.HomeEnv, t.TempDir())
	for _, key := range []string{"CHATBOT_ENDPOINT", "CHATBOT_TIMEOUT_SECONDS", "CHATBOT_PROXY", "CHATBOT_VERBOSE", "CHATBOT_LOG_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	env := &testEnv{
		client: client,
		tui:    &mockTUI{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	env.deps = &Dependencies{
		NewClient: func(cfg config.Config, _ *zap.Logger) (api.ClientInterface, error) {
			env.gotCfg = cfg
			return client, nil
		},
		TUI:    env.tui,
		Stdin:  strings.NewReader(""),
		Stdout: env.stdout,
		Stderr: env.stderr,
		IsTTY:  func() bool { return tty },
	}
	return env
}

// run executes the root command with args
func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}
