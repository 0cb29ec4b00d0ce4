// Helpers for tests that need a real Git repository.
package repotest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// A throwaway repository in a temporary directory.
type Repo struct {
	t   *testing.T
	Dir string
}

// Creates an empty repository. Skips the test if git isn't installed.
func New(t *testing.T) *Repo {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found on PATH")
	}

	r := &Repo{t: t, Dir: t.TempDir()}
	r.Git("init", "--quiet", "--initial-branch=main")
	r.Git("config", "commit.gpgsign", "false")
	return r
}

// Runs git in the repository and returns trimmed stdout. Fails the test on
// error.
func (r *Repo) Git(args ...string) string {
	r.t.Helper()
	return r.GitAs("Test User", args...)
}

// Like Git, but with author and committer set to author.
func (r *Repo) GitAs(author string, args ...string) string {
	r.t.Helper()

	email := strings.ToLower(strings.ReplaceAll(author, " ", ".")) + "@example.com"

	cmd := exec.Command("git", append([]string{"-C", r.Dir}, args...)...)
	cmd.Env = append(
		os.Environ(),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_CONFIG_GLOBAL="+os.DevNull,
		"GIT_AUTHOR_NAME="+author,
		"GIT_AUTHOR_EMAIL="+email,
		"GIT_COMMITTER_NAME="+author,
		"GIT_COMMITTER_EMAIL="+email,
	)

	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		r.t.Fatalf("git %v failed: %v\n%s", args, err, stderr)
	}

	return strings.TrimSpace(string(out))
}

// Writes content to path (relative to the repository root), creating
// directories as needed.
func (r *Repo) Write(path string, content string) {
	r.t.Helper()

	full := filepath.Join(r.Dir, filepath.FromSlash(path))
	err := os.MkdirAll(filepath.Dir(full), 0o755)
	if err != nil {
		r.t.Fatal(err)
	}

	err = os.WriteFile(full, []byte(content), 0o644)
	if err != nil {
		r.t.Fatal(err)
	}
}

// Writes the files and commits them as author. Returns the new commit hash.
func (r *Repo) Commit(author string, files map[string]string) string {
	r.t.Helper()

	for path, content := range files {
		r.Write(path, content)
		r.Git("add", "--", path)
	}

	r.GitAs(author, "commit", "--quiet", "--allow-empty", "-m", "commit by "+author)
	return r.Git("rev-parse", "HEAD")
}
