package embedded

import (
	"testing"
	"testing/fstest"
)

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	initialized = false

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{})

	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	// 重置状态以避免影响其他测试
	initialized = false
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	initialized = false

	_, err := ReadFile("data/game.yaml")
	if err == nil {
		t.Fatal("Expected error when calling ReadFile() before Init()")
	}
	if err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

// TestExistsNotInitialized 测试未初始化时调用 Exists
func TestExistsNotInitialized(t *testing.T) {
	initialized = false

	if Exists("data/game.yaml") {
		t.Error("Expected Exists() to return false before Init()")
	}
}

func TestReadFile(t *testing.T) {
	Init(fstest.MapFS{
		"data/game.yaml": &fstest.MapFile{Data: []byte("daysToWin: 3\n")},
	})
	defer func() { initialized = false }()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"plain path", "data/game.yaml", "daysToWin: 3\n", false},
		{"dot slash prefix", "./data/game.yaml", "daysToWin: 3\n", false},
		{"missing file", "data/missing.yaml", "", true},
		{"invalid prefix", "assets/game.yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ReadFile(%q) expected error", tt.path)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadFile(%q) error: %v", tt.path, err)
			}
			if string(data) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, data, tt.want)
			}
		})
	}
}

// TestOpenInvalidPrefix 测试无效路径前缀
func TestOpenInvalidPrefix(t *testing.T) {
	Init(fstest.MapFS{})
	defer func() { initialized = false }()

	_, err := Open("invalid/path/test.yaml")
	if err == nil {
		t.Fatal("Expected error for invalid path prefix")
	}
	if err.Error() != "unknown resource path prefix: invalid/path/test.yaml (must start with 'data/')" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestExists(t *testing.T) {
	Init(fstest.MapFS{
		"data/cards.yaml": &fstest.MapFile{Data: []byte("upgrades: []\n")},
	})
	defer func() { initialized = false }()

	if !Exists("data/cards.yaml") {
		t.Error("Expected data/cards.yaml to exist")
	}
	if Exists("data/game.yaml") {
		t.Error("Expected data/game.yaml to be missing")
	}
}
