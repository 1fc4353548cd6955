//go:build mage

// Package main contains Mage build targets for pq2csv developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "pq2csv"
	cmdPkg  = "./cmd/pq2csv"
)

// Default is the target run by a bare `mage`.
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + version()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit and CLI tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs Vet and Test.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Generate writes the sample parquet files in testdata/.
func Generate() error {
	return sh.RunV("go", "run", "./testdata/generate.go", "testdata")
}

// Sample converts the generated sample into bin/orders.csv.
func Sample() error {
	mg.Deps(Build, Generate)
	out := filepath.Join(binDir, "orders.csv")
	if err := sh.RunV(filepath.Join(binDir, binName), "--verify", "testdata/orders.parquet", out); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

// Clean removes build output and generated samples.
func Clean() error {
	for _, path := range []string{
		binDir,
		filepath.Join("testdata", "orders.parquet"),
		filepath.Join("testdata", "empty.parquet"),
	} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// version describes the checkout, falling back to "dev" outside git.
func version() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}
