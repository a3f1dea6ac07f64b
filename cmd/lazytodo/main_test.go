package main

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"lazytodo": func() { os.Exit(run()) },
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			homeDir := filepath.Join(env.WorkDir, "home")
			if err := os.MkdirAll(homeDir, 0o755); err != nil {
				return err
			}
			env.Setenv("HOME", homeDir)
			env.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDir, ".config"))
			env.Setenv(configEnv, filepath.Join(env.WorkDir, "config.toml"))
			env.Setenv("NO_COLOR", "1")
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"captureid": cmdCaptureID,
		},
	})
}

var addedPattern = regexp.MustCompile(`added ([0-9a-f-]+): `)

// cmdCaptureID stores the id printed by the last add in an env var.
func cmdCaptureID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("captureid does not support negation")
	}
	if len(args) != 1 {
		ts.Fatalf("usage: captureid VAR")
	}
	match := addedPattern.FindStringSubmatch(ts.ReadFile("stdout"))
	if match == nil {
		ts.Fatalf("no task id in stdout")
	}
	ts.Setenv(args[0], match[1])
}
