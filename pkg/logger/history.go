package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultHistoryPath is used when no transcript path is configured
const DefaultHistoryPath = ".vaultchat/logs/chat.history"

var (
	historyMu   sync.Mutex
	historyFile *os.File
)

// InitHistoryFile opens the chat transcript. With continueHistory the file is
// appended to, otherwise it starts over.
func InitHistoryFile(path string, continueHistory bool) error {
	if path == "" {
		path = DefaultHistoryPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	marker := "Started"
	if continueHistory {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		marker = "Continued"
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}

	historyMu.Lock()
	defer historyMu.Unlock()
	if historyFile != nil {
		historyFile.Close()
	}
	historyFile = f

	_, err = fmt.Fprintf(f, "=== Vault Chat Session %s %s ===\n", marker, time.Now().Format(time.RFC3339))
	return err
}

// LogChatHistory appends one message to the transcript. It is a no-op until
// InitHistoryFile has been called.
func LogChatHistory(role, content string) error {
	historyMu.Lock()
	defer historyMu.Unlock()
	if historyFile == nil {
		return nil
	}
	line := strings.ReplaceAll(content, "\n", " ")
	_, err := fmt.Fprintf(historyFile, "[%s] %s: %s\n", time.Now().Format("15:04:05"), role, line)
	return err
}

func closeHistory() error {
	historyMu.Lock()
	defer historyMu.Unlock()
	if historyFile == nil {
		return nil
	}
	err := historyFile.Close()
	historyFile = nil
	return err
}
