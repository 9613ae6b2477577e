//go:build mage
// +build mage

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

type CLI mg.Namespace

func (c CLI) Build(ctx context.Context) error {
	cmdStr, cmd := runIn(
		".",
		"go",
		"build",
		"-o",
		"./bin/dotenv-azure",
		"./cmd/dotenv-azure",
	)
	fmt.Println(cmdStr)
	return cmd()
}

func (c CLI) Test(ctx context.Context) error {
	cmdStr, cmd := runIn(
		".",
		"go",
		"test",
		"./...",
	)
	fmt.Println(cmdStr)
	return cmd()
}

func runIn(cwd string, cmd string, args ...string) (string, func() error) {
	c := exec.Command(cmd, args...)
	c.Dir = cwd
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.String(), func() error {
		return c.Run()
	}
}
