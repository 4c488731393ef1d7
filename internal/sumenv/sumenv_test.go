package sumenv

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SPONGE256SUM_THREAD_COUNT", "")
	t.Setenv("SPONGE256SUM_DIRWALK_STRATEGY", "")
	t.Setenv("SPONGE256SUM_SELFTEST_PASSES", "")

	env, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if env.ThreadCount != 0 || env.DirwalkStrategy != BFS || env.SelftestPasses != defaultSelftestPass {
		t.Fatalf("unexpected defaults: %+v", env)
	}
}

func TestLoadDirwalkStrategyCaseInsensitive(t *testing.T) {
	t.Setenv("SPONGE256SUM_DIRWALK_STRATEGY", "dfs")
	env, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if env.DirwalkStrategy != DFS {
		t.Fatalf("DirwalkStrategy = %v, want DFS", env.DirwalkStrategy)
	}
}

func TestLoadInvalidStrategy(t *testing.T) {
	t.Setenv("SPONGE256SUM_DIRWALK_STRATEGY", "wat")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid strategy")
	}
}

func TestLoadThreadCountClamped(t *testing.T) {
	t.Setenv("SPONGE256SUM_THREAD_COUNT", "999")
	env, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if env.ThreadCount != maxThreads {
		t.Fatalf("ThreadCount = %d, want %d", env.ThreadCount, maxThreads)
	}
}

func TestLoadSelftestPassesZeroInvalid(t *testing.T) {
	t.Setenv("SPONGE256SUM_SELFTEST_PASSES", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero passes")
	}
}
