package main

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestSetFlagAliases(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var description string
	flags.StringVar(&description, "description", "", "")
	setFlagAliases(flags, flagAliases)

	if err := flags.Parse([]string{"--desc", "short form"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if description != "short form" {
		t.Fatalf("expected alias to set description, got %q", description)
	}
}
