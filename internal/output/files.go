package output

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"kgram/internal/domain"
)

const (
	MatrixSuffix = ".csv"
	NamesSuffix  = "_Names.txt"
)

// Paths returns the matrix and name file paths for an output prefix.
func Paths(prefix string) (matrix, names string) {
	return prefix + MatrixSuffix, prefix + NamesSuffix
}

// WriteFiles writes <prefix>.csv and <prefix>_Names.txt. Both files are
// staged as temporaries and renamed into place only after both are
// complete, so a failure leaves no partial output behind.
func WriteFiles(prefix string, names []string, vectors []domain.Vector) error {
	matrixPath, namesPath := Paths(prefix)
	if err := os.MkdirAll(filepath.Dir(matrixPath), 0o755); err != nil {
		return err
	}
	matrixTmp, err := stage(matrixPath, func(w io.Writer) error { return WriteMatrix(w, vectors) })
	if err != nil {
		return err
	}
	namesTmp, err := stage(namesPath, func(w io.Writer) error { return WriteNames(w, names) })
	if err != nil {
		_ = os.Remove(matrixTmp)
		return err
	}
	if err := os.Rename(matrixTmp, matrixPath); err != nil {
		_ = os.Remove(matrixTmp)
		_ = os.Remove(namesTmp)
		return err
	}
	if err := os.Rename(namesTmp, namesPath); err != nil {
		_ = os.Remove(namesTmp)
		_ = os.Remove(matrixPath)
		return err
	}
	_ = syncDir(filepath.Dir(matrixPath))
	return nil
}

// WriteFile atomically replaces dest with what fill writes.
func WriteFile(dest string, fill func(w io.Writer) error) error {
	tmp, err := stage(dest, fill)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// stage writes to a temporary file next to dest and returns its path.
func stage(dest string, fill func(w io.Writer) error) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, 0o644)

	bw := bufio.NewWriterSize(tmp, 64*1024)
	if err := fill(bw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

// syncDir best-effort fsyncs a directory to persist the renames.
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
