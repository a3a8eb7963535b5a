package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupInfo describes one backup file.
type BackupInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// Backup checkpoints the WAL and copies the database file into dir as
// ironlog_backup_<timestamp>.db, writing a .sha256 sidecar next to it.
func (db *DB) Backup(ctx context.Context, dir string) (BackupInfo, error) {
	if db.path == "" {
		return BackupInfo{}, fmt.Errorf("backup: database has no file path")
	}
	if _, err := db.SQL.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return BackupInfo{}, fmt.Errorf("checkpointing wal: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("creating backup directory: %w", err)
	}

	out := filepath.Join(dir, fmt.Sprintf("ironlog_backup_%s.db", time.Now().Format("20060102_150405")))
	if err := copyFile(db.path, out); err != nil {
		return BackupInfo{}, err
	}
	checksum, err := HashFile(out)
	if err != nil {
		return BackupInfo{}, err
	}
	if err := os.WriteFile(out+".sha256", []byte(checksum+"\n"), 0o644); err != nil {
		return BackupInfo{}, fmt.Errorf("writing checksum file: %w", err)
	}
	st, err := os.Stat(out)
	if err != nil {
		return BackupInfo{}, fmt.Errorf("stating backup: %w", err)
	}
	return BackupInfo{Path: out, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()}, nil
}

// ListBackups returns the backups found in dir, newest first.
func ListBackups(dir string) ([]BackupInfo, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup dir: %w", err)
	}
	out := make([]BackupInfo, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".db") {
			continue
		}
		full := filepath.Join(dir, f.Name())
		st, err := os.Stat(full)
		if err != nil {
			continue
		}
		checksum := ""
		if b, err := os.ReadFile(full + ".sha256"); err == nil {
			checksum = strings.TrimSpace(string(b))
		}
		out = append(out, BackupInfo{Path: full, Checksum: checksum, CreatedAt: st.ModTime(), SizeBytes: st.Size()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RestoreBackup copies a backup file over the database path, verifying the
// sidecar checksum when present. Refuses to overwrite an existing database
// unless force is set.
func RestoreBackup(backupPath, dbPath string, force bool) error {
	if !force {
		if _, err := os.Stat(dbPath); err == nil {
			return fmt.Errorf("database already exists at %s (use force to overwrite)", dbPath)
		}
	}
	if expected, err := os.ReadFile(backupPath + ".sha256"); err == nil {
		actual, err := HashFile(backupPath)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(expected)) != actual {
			return fmt.Errorf("backup checksum mismatch for %s", backupPath)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	return copyFile(backupPath, dbPath)
}

// HashFile computes the SHA-256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file for hashing: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source file: %w", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating destination file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("syncing destination file: %w", err)
	}
	return nil
}
