package config

import (
	"sync"
	"testing"
)

func TestInitialize(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	path := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:8500\"\n")
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config after initialization")
	}
	if cfg.Server.ListenAddress != "127.0.0.1:8500" {
		t.Errorf("expected listen address from file, got %q", cfg.Server.ListenAddress)
	}

	// Later calls are ignored.
	other := writeConfig(t, "server:\n  listen_address: \"127.0.0.1:8600\"\n")
	if err := Initialize(other); err != nil {
		t.Fatalf("second Initialize() failed: %v", err)
	}
	if GetConfig().Server.ListenAddress != "127.0.0.1:8500" {
		t.Error("second Initialize should not replace the configuration")
	}
}

func TestReloadConfig_KeepsPreviousOnError(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	SetConfig(Default())
	before := GetConfig()

	if err := ReloadConfig(writeConfig(t, "history:\n  backend: mysql\n")); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig() != before {
		t.Error("failed reload replaced the configuration")
	}

	if err := ReloadConfig(writeConfig(t, "history:\n  backend: memory\n")); err != nil {
		t.Fatalf("ReloadConfig() failed: %v", err)
	}
	if GetConfig().History.Backend != "memory" {
		t.Errorf("expected reloaded backend, got %q", GetConfig().History.Backend)
	}
}

func TestMustGetConfig_Panics(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustGetConfig()
}

func TestGetConfig_Concurrent(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)
	SetConfig(Default())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = GetConfig()
		}()
		go func() {
			defer wg.Done()
			SetConfig(Default())
		}()
	}
	wg.Wait()
}
