//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "recipetrans"

// Default target to run when none is specified
var Default = Build

// Build builds the recipetrans binary. go-sqlite3 needs cgo.
func Build() error {
	env := map[string]string{"CGO_ENABLED": "1"}
	return sh.RunWithV(env, "go", "build", "-o", binary, "./cmd/recipetrans")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs the binary to $GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"}, "go", "install", "./cmd/recipetrans")
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binary)
}
