package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Verbose {
		t.Error("expected Verbose to be false")
	}
	if cfg.Color != "auto" {
		t.Errorf("expected Color to be 'auto', got %q", cfg.Color)
	}
	if time.Duration(cfg.Input.RepeatThreshold) != 300*time.Millisecond {
		t.Errorf("expected Input.RepeatThreshold to be 300ms, got %v", cfg.Input.RepeatThreshold)
	}
	if !cfg.Input.KeepClean {
		t.Error("expected Input.KeepClean to be true")
	}
	if cfg.History.Enabled {
		t.Error("expected History.Enabled to be false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		key    string
	}{
		{"color", func(c *Config) { c.Color = "rainbow" }, "color"},
		{"term type", func(c *Config) { c.TermType = "vt100" }, "term_type"},
		{"encoding", func(c *Config) { c.Encoding = "no-such-charset" }, "encoding"},
		{"debounce", func(c *Config) { c.Watch.DebounceMs = -5 }, "watch.debounce_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.HasPrefix(err.Error(), tt.key+":") {
				t.Errorf("error %q should name %s", err, tt.key)
			}
		})
	}

	cfg := Default()
	cfg.TermType = "mintty"
	cfg.Encoding = "Shift_JIS"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := Default()
	if got, want := cfg.HistoryPath("/repo"), filepath.Join("/repo", ".termkit", "history.db"); got != want {
		t.Errorf("HistoryPath() = %q, want %q", got, want)
	}
	cfg.History.Path = "/tmp/keys.db"
	if got := cfg.HistoryPath("/repo"); got != "/tmp/keys.db" {
		t.Errorf("HistoryPath() = %q, want explicit path", got)
	}
}

func TestDurationText(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"300ms", 300 * time.Millisecond},
		{"1.5s", 1500 * time.Millisecond},
		{"0.3", 300 * time.Millisecond},
		{"0", 0},
		{"-1s", -time.Second},
	}
	for _, tt := range tests {
		var d Duration
		if err := d.UnmarshalText([]byte(tt.in)); err != nil {
			t.Errorf("UnmarshalText(%q) failed: %v", tt.in, err)
			continue
		}
		if time.Duration(d) != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, time.Duration(d), tt.want)
		}
	}

	var d Duration
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText(soon) should fail")
	}
	if b, _ := Duration(300 * time.Millisecond).MarshalText(); string(b) != "300ms" {
		t.Errorf("MarshalText() = %q, want 300ms", b)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"TERMKIT_VERBOSE":                "verbose",
		"TERMKIT_TERM_TYPE":              "term_type",
		"TERMKIT_INPUT_REPEAT_THRESHOLD": "input.repeat_threshold",
		"TERMKIT_INPUT_KEEP_CLEAN":       "input.keep_clean",
		"TERMKIT_HISTORY_PATH":           "history.path",
		"TERMKIT_WATCH_DEBOUNCE_MS":      "watch.debounce_ms",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindLocations(t *testing.T) {
	tmp := t.TempDir()
	gitRoot := filepath.Join(tmp, "repo")
	cwd := filepath.Join(gitRoot, "a", "b")
	os.MkdirAll(cwd, 0755)

	locations := FindLocations(cwd, gitRoot)
	if len(locations) == 0 {
		t.Fatal("expected at least some locations")
	}

	var sources []string
	for _, loc := range locations {
		if loc.Source != "user" && !strings.HasPrefix(loc.Source, "parent:") {
			sources = append(sources, loc.Source)
		} else if strings.HasPrefix(loc.Source, "parent:") && !strings.HasSuffix(loc.Source, filepath.Join(gitRoot, "a")) {
			t.Errorf("unexpected parent location %q", loc.Source)
		}
	}
	// git root entries always come before cwd entries
	if len(sources) == 0 || sources[0] != "git-root" || sources[len(sources)-1] != "cwd" {
		t.Errorf("expected git-root before cwd, got %v", sources)
	}
}

func TestParentDirs(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "repo")
	child := filepath.Join(root, "a", "b", "c")

	got := parentDirs(child, root)
	want := []string{filepath.Join(root, "a"), filepath.Join(root, "a", "b")}
	if len(got) != len(want) {
		t.Fatalf("parentDirs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parentDirs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if parentDirs(root, root) != nil {
		t.Error("parentDirs of the same dir should be nil")
	}
}

func TestLoadDefault(t *testing.T) {
	tmp := t.TempDir()

	result, err := Load(LoadOptions{
		CWD:     tmp,
		GitRoot: tmp,
		SkipEnv: true,
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if result.Config == nil {
		t.Fatal("expected non-nil config")
	}
	if time.Duration(result.Config.Input.RepeatThreshold) != 300*time.Millisecond {
		t.Errorf("default threshold lost in load: %v", result.Config.Input.RepeatThreshold)
	}
	if !result.Config.Input.KeepClean {
		t.Error("default keep_clean lost in load")
	}
	if len(result.Sources) == 0 || result.Sources[0] != "defaults" {
		t.Errorf("expected defaults as first source, got %v", result.Sources)
	}
}

func TestLoadWithEnv(t *testing.T) {
	tmp := t.TempDir()

	t.Setenv("TERMKIT_VERBOSE", "true")
	t.Setenv("TERMKIT_TERM_TYPE", "cygwin")
	t.Setenv("TERMKIT_INPUT_REPEAT_THRESHOLD", "500ms")
	t.Setenv("TERMKIT_INPUT_KEEP_CLEAN", "false")

	result, err := Load(LoadOptions{
		CWD:     tmp,
		GitRoot: tmp,
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := result.Config
	if !cfg.Verbose {
		t.Error("expected Verbose to be true from env var")
	}
	if cfg.TermType != "cygwin" {
		t.Errorf("expected TermType cygwin, got %q", cfg.TermType)
	}
	if time.Duration(cfg.Input.RepeatThreshold) != 500*time.Millisecond {
		t.Errorf("expected threshold 500ms, got %v", cfg.Input.RepeatThreshold)
	}
	if cfg.Input.KeepClean {
		t.Error("expected KeepClean false from env var")
	}
}

func TestLoadWithFile(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		threshold time.Duration
	}{
		{"toml", "config.toml", "verbose = true\nencoding = \"shift_jis\"\n\n[input]\nrepeat_threshold = \"1s\"\n", time.Second},
		{"yaml", "config.yaml", "verbose: true\nencoding: shift_jis\ninput:\n  repeat_threshold: 1s\n", time.Second},
		{"json", "config.json", `{"verbose": true, "encoding": "shift_jis", "input": {"repeat_threshold": "1s"}}`, time.Second},
		{"toml float seconds", "config.toml", "verbose = true\nencoding = \"shift_jis\"\n\n[input]\nrepeat_threshold = 0.3\n", 300 * time.Millisecond},
		{"toml int seconds", "config.toml", "verbose = true\nencoding = \"shift_jis\"\n\n[input]\nrepeat_threshold = 2\n", 2 * time.Second},
		{"yaml float seconds", "config.yaml", "verbose: true\nencoding: shift_jis\ninput:\n  repeat_threshold: 0.3\n", 300 * time.Millisecond},
		{"yaml int seconds", "config.yaml", "verbose: true\nencoding: shift_jis\ninput:\n  repeat_threshold: 2\n", 2 * time.Second},
		{"json float seconds", "config.json", `{"verbose": true, "encoding": "shift_jis", "input": {"repeat_threshold": 0.3}}`, 300 * time.Millisecond},
		{"json int seconds", "config.json", `{"verbose": true, "encoding": "shift_jis", "input": {"repeat_threshold": 2}}`, 2 * time.Second},
		{"string seconds", "config.toml", "verbose = true\nencoding = \"shift_jis\"\n\n[input]\nrepeat_threshold = \"0.5\"\n", 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			configDir := filepath.Join(tmp, ".termkit")
			os.MkdirAll(configDir, 0755)
			os.WriteFile(filepath.Join(configDir, tt.file), []byte(tt.content), 0644)

			result, err := Load(LoadOptions{
				CWD:     tmp,
				GitRoot: tmp,
				SkipEnv: true,
			})
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			cfg := result.Config
			if !cfg.Verbose {
				t.Error("expected Verbose to be true from config file")
			}
			if cfg.Encoding != "shift_jis" {
				t.Errorf("expected Encoding shift_jis, got %q", cfg.Encoding)
			}
			if time.Duration(cfg.Input.RepeatThreshold) != tt.threshold {
				t.Errorf("expected threshold %v, got %v", tt.threshold, cfg.Input.RepeatThreshold)
			}
			// Unset keys keep their defaults
			if !cfg.Input.KeepClean || cfg.Color != "auto" {
				t.Errorf("defaults not preserved: %+v", cfg)
			}
		})
	}
}

func TestLoadSkipsBrokenDiscoveredFile(t *testing.T) {
	tmp := t.TempDir()
	configDir := filepath.Join(tmp, ".termkit")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("verbose = = true"), 0644)

	result, err := Load(LoadOptions{CWD: tmp, GitRoot: tmp, SkipEnv: true})
	if err != nil {
		t.Fatalf("discovered broken file should be skipped, got %v", err)
	}
	if result.Config.Verbose {
		t.Error("broken file should not contribute values")
	}
}

func TestLoadExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "custom.toml")
	os.WriteFile(path, []byte("quiet = true\n"), 0644)

	result, err := Load(LoadOptions{CWD: tmp, GitRoot: tmp, ConfigFile: path, SkipEnv: true})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !result.Config.Quiet {
		t.Error("expected Quiet from explicit file")
	}

	broken := filepath.Join(tmp, "broken.toml")
	os.WriteFile(broken, []byte("quiet = = true"), 0644)
	if _, err := Load(LoadOptions{CWD: tmp, GitRoot: tmp, ConfigFile: broken, SkipEnv: true}); err == nil {
		t.Error("explicit broken file should fail to load")
	} else if !strings.Contains(err.Error(), broken) {
		t.Errorf("error %q should name the file", err)
	}
}

func TestScopesOrder(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("the user config dir comes from APPDATA")
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(string(filepath.Separator), "xdg"))
	root := filepath.Join(string(filepath.Separator), "repo")
	cwd := filepath.Join(root, "a", "b")

	var got []string
	for _, sc := range scopes(cwd, root) {
		got = append(got, sc.source)
	}
	want := []string{"user", "parent:" + filepath.Join(root, "a"), "git-root", "cwd"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("scopes() = %v, want %v", got, want)
	}

	// Outside a repository only the user dir and cwd are searched.
	got = got[:0]
	for _, sc := range scopes(cwd, "") {
		got = append(got, sc.source)
	}
	if got[len(got)-1] != "cwd" || strings.Contains(strings.Join(got, ","), "git-root") {
		t.Errorf("scopes() without git root = %v", got)
	}
}

func TestExplicitLocation(t *testing.T) {
	tmp := t.TempDir()
	existing := filepath.Join(tmp, "custom.toml")
	os.WriteFile(existing, []byte("quiet = true\n"), 0644)
	env := func(v string) func(string) string {
		return func(key string) string {
			if key == ConfigEnv {
				return v
			}
			return ""
		}
	}

	tests := []struct {
		name       string
		flag       string
		getenv     func(string) string
		wantOK     bool
		wantSource string
		wantExists bool
	}{
		{"nothing set", "", env(""), false, "", false},
		{"nil getenv", "", nil, false, "", false},
		{"flag", existing, env(""), true, "flag", true},
		{"flag wins over env", existing, env("/elsewhere.toml"), true, "flag", true},
		{"env", "", env(existing), true, "env:TERMKIT_CONFIG", true},
		{"missing file", filepath.Join(tmp, "nope.toml"), nil, true, "flag", false},
	}
	for _, tt := range tests {
		loc, ok := ExplicitLocation(tt.flag, tt.getenv)
		if ok != tt.wantOK || loc.Source != tt.wantSource || loc.Exists != tt.wantExists {
			t.Errorf("%s: ExplicitLocation() = %+v, %v; want source %q exists %v ok %v",
				tt.name, loc, ok, tt.wantSource, tt.wantExists, tt.wantOK)
		}
	}
}

func TestLoadConfigEnv(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "elsewhere.yaml")
	os.WriteFile(path, []byte("term_type: mintty\n"), 0644)

	// A discovered file is ignored once TERMKIT_CONFIG names one.
	configDir := filepath.Join(tmp, ".termkit")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("term_type = \"nt\"\n"), 0644)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(ConfigEnv, path)
	result, err := Load(LoadOptions{CWD: tmp, GitRoot: tmp})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if result.Config.TermType != "mintty" {
		t.Errorf("TermType = %q, want mintty from %s", result.Config.TermType, ConfigEnv)
	}
	if want := "env:" + ConfigEnv + ":" + path; result.Sources[1] != want {
		t.Errorf("Sources = %v, want %q second", result.Sources, want)
	}

	// SkipEnv also skips the override.
	result, err = Load(LoadOptions{CWD: tmp, GitRoot: tmp, SkipEnv: true})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if result.Config.TermType != "nt" {
		t.Errorf("TermType = %q, want nt from the discovered file", result.Config.TermType)
	}
}

func TestHistoryLocation(t *testing.T) {
	root := t.TempDir()
	cfg := Default()

	loc := cfg.HistoryLocation(root)
	if loc.Source != "history" || loc.Path != filepath.Join(root, ".termkit", "history.db") || loc.Exists {
		t.Errorf("HistoryLocation() = %+v", loc)
	}

	os.MkdirAll(filepath.Join(root, ".termkit"), 0755)
	os.WriteFile(loc.Path, nil, 0644)
	if !cfg.HistoryLocation(root).Exists {
		t.Error("HistoryLocation() should report an existing database")
	}
}
