package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/yaklabco/domsplice/pkg/config"
	"github.com/yaklabco/domsplice/pkg/document"
	"github.com/yaklabco/domsplice/pkg/fsutil"
	"github.com/yaklabco/domsplice/pkg/pattern"
	"github.com/yaklabco/domsplice/pkg/runner"
	"github.com/yaklabco/domsplice/pkg/splice"
)

func compile(t *testing.T, cfg *config.Config) []runner.Rule {
	t.Helper()
	rules, err := runner.CompileRules(cfg)
	require.NoError(t, err)
	return rules
}

func withRules(rules ...config.Rule) *config.Config {
	cfg := config.NewConfig()
	cfg.Rules = rules
	return cfg
}

func TestCompileRules(t *testing.T) {
	t.Parallel()

	t.Run("no rules", func(t *testing.T) {
		t.Parallel()
		_, err := runner.CompileRules(config.NewConfig())
		require.ErrorIs(t, err, runner.ErrNoRules)
	})

	t.Run("bad pattern names the rule", func(t *testing.T) {
		t.Parallel()
		_, err := runner.CompileRules(withRules(config.Rule{Name: "broken", Pattern: "/a(/"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")

		var syntaxErr *pattern.SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg := withRules(config.Rule{Pattern: "a"}, config.Rule{Pattern: "/b/", Engine: config.EngineECMAScript})
		rules := compile(t, cfg)

		require.Len(t, rules, 2)
		assert.Equal(t, "rule-1", rules[0].Name)
		assert.True(t, rules[0].Pattern.Global(), "bare patterns replace every match")
		assert.Equal(t, pattern.EngineRE2, rules[0].Pattern.Engine())
		assert.False(t, rules[1].Pattern.Global())
		assert.Equal(t, pattern.EngineECMAScript, rules[1].Pattern.Engine())
	})
}

func TestProcess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		input  string
		cfg    *config.Config
		want   string
		counts [2]int
	}{
		{
			name:   "wrap across element boundary",
			path:   "a.html",
			input:  "<p>Acme <b>Cor</b>p rocks</p>",
			cfg:    withRules(config.Rule{Pattern: "/acme corp/gi", Wrap: "mark"}),
			want:   "<p><mark>Acme </mark><b><mark>Cor</mark></b><mark>p</mark> rocks</p>",
			counts: [2]int{1, 3},
		},
		{
			name:   "wrap with class",
			path:   "a.html",
			input:  "<p>see TODO here</p>",
			cfg:    withRules(config.Rule{Pattern: "TODO", Wrap: "span", Class: "todo"}),
			want:   `<p>see <span class="todo">TODO</span> here</p>`,
			counts: [2]int{1, 1},
		},
		{
			name:   "replace keeps structure",
			path:   "a.html",
			input:  "<p><i>fo</i>o and foo</p>",
			cfg:    withRules(config.Rule{Pattern: "foo", Replace: "bar"}),
			want:   "<p><i>ba</i>r and bar</p>",
			counts: [2]int{2, 3},
		},
		{
			name:   "literal collapses into first portion",
			path:   "a.html",
			input:  "<p><i>fo</i>o</p>",
			cfg:    withRules(config.Rule{Pattern: "foo", Replace: "qux", Literal: true}),
			want:   "<p><i>qux</i></p>",
			counts: [2]int{1, 2},
		},
		{
			name:  "rules run in order",
			path:  "a.html",
			input: "<p>cat</p>",
			cfg: withRules(
				config.Rule{Pattern: "cat", Replace: "dog"},
				config.Rule{Pattern: "dog", Wrap: "b"},
			),
			want:   "<p><b>dog</b></p>",
			counts: [2]int{2, 2},
		},
		{
			name:   "script excluded by default",
			path:   "a.html",
			input:  "<p>x</p><script>var x;</script>",
			cfg:    withRules(config.Rule{Pattern: "x", Wrap: "b"}),
			want:   "<p><b>x</b></p><script>var x;</script>",
			counts: [2]int{1, 1},
		},
		{
			name:   "selector limits scope",
			path:   "a.html",
			input:  `<p>x</p><div class="c"><p>x</p></div>`,
			cfg:    withRules(config.Rule{Pattern: "x", Wrap: "b", Select: ".c"}),
			want:   `<p>x</p><div class="c"><p><b>x</b></p></div>`,
			counts: [2]int{1, 1},
		},
		{
			name:   "capture group",
			path:   "a.html",
			input:  "<p>v1.2</p>",
			cfg:    withRules(config.Rule{Pattern: `/v(\d+)\.\d+/g`, Wrap: "em", Group: 1}),
			want:   "<p>v<em>1</em>.2</p>",
			counts: [2]int{1, 1},
		},
		{
			name:   "markdown renders to html",
			path:   "notes.md",
			input:  "# Hello world\n",
			cfg:    withRules(config.Rule{Pattern: "world", Wrap: "em"}),
			want:   "<h1>Hello <em>world</em></h1>\n",
			counts: [2]int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := runner.Process(context.Background(), tt.path, []byte(tt.input), compile(t, tt.cfg), document.Options{})
			require.NoError(t, err)

			assert.Equal(t, tt.want, string(res.After))
			assert.Equal(t, tt.counts[0], res.Matches)
			assert.Equal(t, tt.counts[1], res.Replacements)
			assert.True(t, res.Changed)
			assert.Len(t, res.Rules, len(tt.cfg.Rules))
		})
	}
}

func TestProcessNoMatch(t *testing.T) {
	t.Parallel()

	rules := compile(t, withRules(config.Rule{Pattern: "zzz", Wrap: "b"}))
	res, err := runner.Process(context.Background(), "a.html", []byte("<p>abc</p>"), rules, document.Options{})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, res.Before, res.After)
	assert.Equal(t, "a.html", res.OutputPath)
}

func failingRule(t *testing.T, needle string) runner.Rule {
	t.Helper()
	return runner.Rule{
		Name:    "boom",
		Pattern: pattern.MustCompile(needle, pattern.Options{Global: true}),
		Content: splice.Func(func(splice.Portion) (*html.Node, error) {
			return nil, errors.New("factory failed")
		}),
	}
}

func TestProcessFailureNamesRule(t *testing.T) {
	t.Parallel()

	rules := append(compile(t, withRules(config.Rule{Pattern: "foo", Replace: "bar"})), failingRule(t, "x"))
	_, err := runner.Process(context.Background(), "a.html", []byte("<p>foo x</p>"), rules, document.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule boom")

	var replaceErr *splice.ReplaceError
	require.ErrorAs(t, err, &replaceErr)
}

func TestScan(t *testing.T) {
	t.Parallel()

	rules := compile(t, withRules(
		config.Rule{Name: "brand", Pattern: "/acme/gi"},
		config.Rule{Name: "year", Pattern: `\d{4}`},
	))
	hits, err := runner.Scan(context.Background(), "a.html", []byte("<p>AC<b>ME</b> 2024 acme</p>"), rules, document.Options{})
	require.NoError(t, err)

	require.Len(t, hits, 3)
	assert.Equal(t, runner.Hit{Rule: "brand", Start: 0, End: 4, Text: "ACME", Portions: 2}, hits[0])
	assert.Equal(t, "acme", hits[1].Text)
	assert.Equal(t, "year", hits[2].Rule)
	assert.Equal(t, "2024", hits[2].Text)
}

func TestRun(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"a.html":     "<p>foo</p>",
		"b.html":     "<p>nothing</p>",
		"docs/c.md":  "foo *foo*\n",
		"skip/d.htm": "<p>foo</p>",
	})

	cfg := withRules(config.Rule{Pattern: "foo", Replace: "bar"})
	res, err := runner.Run(context.Background(), runner.Options{
		WorkingDir:   root,
		ExcludeGlobs: []string{"skip/**"},
		Jobs:         2,
		Config:       cfg,
	})
	require.NoError(t, err)

	assert.Equal(t, runner.Stats{
		FilesDiscovered: 3,
		FilesProcessed:  3,
		FilesChanged:    2,
		FilesWritten:    2,
		BackupsCreated:  1,
		Matches:         3,
		Replacements:    3,
	}, res.Stats)
	assert.True(t, res.HasChanges())
	assert.False(t, res.HasErrors())

	assert.Equal(t, "<p>bar</p>", readFile(t, filepath.Join(root, "a.html")))
	assert.Equal(t, "<p>foo</p>", readFile(t, filepath.Join(root, "a.html"+fsutil.BackupSuffix)))
	assert.Equal(t, "<p>nothing</p>", readFile(t, filepath.Join(root, "b.html")))
	assert.Equal(t, "<p>bar <em>bar</em></p>\n", readFile(t, filepath.Join(root, "docs", "c.html")))
	assert.Equal(t, "foo *foo*\n", readFile(t, filepath.Join(root, "docs", "c.md")))
	assert.Equal(t, "<p>foo</p>", readFile(t, filepath.Join(root, "skip", "d.htm")))
}

func TestRunDryRunAndNoBackups(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name       string
		mutate     func(*config.Config)
		wantFile   string
		wantBackup bool
	}{
		{"default backs up", func(*config.Config) {}, "<p>bar</p>", true},
		{"dry run", func(c *config.Config) { c.DryRun = true }, "<p>foo</p>", false},
		{"stdout", func(c *config.Config) { c.Stdout = true }, "<p>foo</p>", false},
		{"no backups", func(c *config.Config) { c.NoBackups = true }, "<p>bar</p>", false},
		{"backup mode none", func(c *config.Config) { c.Backups.Mode = "none" }, "<p>bar</p>", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			root := tree(t, map[string]string{"a.html": "<p>foo</p>"})
			cfg := withRules(config.Rule{Pattern: "foo", Replace: "bar"})
			tc.mutate(cfg)

			res, err := runner.Run(context.Background(), runner.Options{WorkingDir: root, Config: cfg})
			require.NoError(t, err)
			require.Len(t, res.Files, 1)
			assert.Equal(t, "<p>bar</p>", string(res.Files[0].Result.After))
			assert.Equal(t, tc.wantFile, readFile(t, filepath.Join(root, "a.html")))

			_, statErr := os.Stat(filepath.Join(root, "a.html"+fsutil.BackupSuffix))
			assert.Equal(t, tc.wantBackup, statErr == nil)
		})
	}
}

func TestRunPerFileErrors(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"bad.html":  "<p>foo x</p>",
		"good.html": "<p>foo</p>",
	})
	rules := append(compile(t, withRules(config.Rule{Pattern: "foo", Replace: "bar"})), failingRule(t, "x"))

	res, err := runner.Run(context.Background(), runner.Options{WorkingDir: root, Rules: rules, Config: config.NewConfig()})
	require.NoError(t, err)

	require.Len(t, res.Files, 2)
	assert.Error(t, res.Files[0].Error)
	assert.NoError(t, res.Files[1].Error)
	assert.Equal(t, 1, res.Stats.FilesErrored)
	assert.True(t, res.HasErrors())
	assert.Equal(t, "<p>foo x</p>", readFile(t, filepath.Join(root, "bad.html")))
	assert.Equal(t, "<p>bar</p>", readFile(t, filepath.Join(root, "good.html")))
}

func TestRunManyFilesDeterministic(t *testing.T) {
	t.Parallel()

	files := make(map[string]string)
	for i := range 40 {
		files[fmt.Sprintf("p%02d.html", i)] = "<p>foo <b>foo</b></p>"
	}
	root := tree(t, files)

	cfg := withRules(config.Rule{Pattern: "foo", Wrap: "i"})
	cfg.DryRun = true

	serial, err := runner.Run(context.Background(), runner.Options{WorkingDir: root, Config: cfg, Jobs: 1})
	require.NoError(t, err)
	parallel, err := runner.Run(context.Background(), runner.Options{WorkingDir: root, Config: cfg, Jobs: 8})
	require.NoError(t, err)

	assert.Equal(t, serial.Stats, parallel.Stats)
	assert.Equal(t, 80, parallel.Stats.Matches)
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
		assert.Equal(t, serial.Files[i].Result.After, parallel.Files[i].Result.After)
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{"a.html": "<p>foo</p>"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, runner.Options{WorkingDir: root, Config: withRules(config.Rule{Pattern: "foo"})})
	require.ErrorIs(t, err, context.Canceled)
}
