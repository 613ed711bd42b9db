package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const sessionFileName = ".barterctl.json"

// session хранит токен между запусками.
type session struct {
	Server   string `json:"server"`
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func defaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("не удалось определить домашний каталог: %w", err)
	}
	return filepath.Join(home, sessionFileName), nil
}

// loadSession возвращает пустую сессию, если файла ещё нет.
func loadSession(path string) (*session, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение %s: %w", path, err)
	}

	var s session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("файл сессии %s повреждён: %w", path, err)
	}
	return &s, nil
}

func (s *session) save(path string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	// токен секретный, файл доступен только владельцу
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("запись %s: %w", path, err)
	}
	return nil
}
