//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "domsplice"
	binPath = "bin/" + binary
	mainPkg = "./cmd/" + binary
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"i":   Install,
	"fmt": Lint.Fmt,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/domsplice with version info, skipping the build when
// no source changed.
func Build() error {
	rebuild, err := target.Dir(binPath, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binPath, "is up to date")
		return nil
	}
	fmt.Println("Building", binary+"...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binPath, mainPkg)
}

// Check runs format, lint and test in order.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Smoke runs the built binary over a generated page and checks the result.
func Smoke() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "domsplice-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	page := filepath.Join(dir, "page.html")
	if err := os.WriteFile(page, []byte("<p>Acme <b>Corp</b></p>"), 0o600); err != nil {
		return err
	}
	out, err := sh.Output(binPath, "replace", "--stdout", "-e", "/acme corp/gi", "--wrap", "mark", page)
	if err != nil {
		return err
	}
	const want = "<p><mark>Acme </mark><b><mark>Corp</mark></b></p>"
	if out != want {
		return fmt.Errorf("smoke: got %q, want %q", out, want)
	}
	fmt.Println("✓ smoke test passed")
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs domsplice to $GOBIN or $GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Uninstall removes the installed binary.
func Uninstall() error {
	path, err := installedBinary()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println(binary, "is not installed")
			return nil
		}
		return fmt.Errorf("remove binary: %w", err)
	}
	fmt.Println("Removed", path)
	return nil
}

// Deps downloads and tidies modules.
func Deps() error {
	if err := sh.RunV("go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Coverage writes an HTML coverage report.
func Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs all tests with gotestsum, the race detector and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails")
}

// Verbose runs all tests with verbose output.
func (Test) Verbose() error {
	return gotestsum("standard-verbose")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without auto-fix.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when any file needs formatting.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Gate runs every CI check.
func (CI) Gate() error {
	st.SerialDeps(Lint.FmtCheck, Lint.Vet, Lint.CI, Build, Test.Default, Smoke, CI.ModTidy, CI.Cross)
	fmt.Println("✓ All CI gate checks passed")
	return nil
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := readModFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readModFiles()
	if err != nil {
		return err
	}
	if before != after {
		return errors.New("go.mod or go.sum changed after 'go mod tidy'")
	}
	return nil
}

// Cross builds for every release platform.
func (CI) Cross() error {
	for _, platform := range []string{
		"linux/amd64", "linux/arm64",
		"darwin/amd64", "darwin/arm64",
		"windows/amd64", "windows/arm64",
		"freebsd/amd64",
	} {
		goos, goarch, _ := strings.Cut(platform, "/")
		fmt.Println("  Building", platform+"...")
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, mainPkg); err != nil {
			return fmt.Errorf("build failed for %s: %w", platform, err)
		}
	}
	return nil
}

// Default runs the Go benchmarks.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./pkg/...")
}

func gotestsum(format string) error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", format,
		"--",
		"-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

func readModFiles() (string, error) {
	var b strings.Builder
	for _, name := range []string{"go.mod", "go.sum"} {
		data, err := os.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		b.Write(data)
	}
	return b.String(), nil
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects version info into main.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

func installedBinary() (string, error) {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return filepath.Join(gobin, binary), nil
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin", binary), nil
}
