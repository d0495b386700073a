package storage

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

const (
	tempPrefix = ".upload-"
	tempSuffix = ".tmp"
)

var (
	errEmptyName  = errors.New("file name is empty")
	errTraversal  = errors.New("cannot store file with relative path outside current directory")
	errAbsolute   = errors.New("cannot store file with absolute path")
	errBadChars   = errors.New("file name contains forbidden characters")
	errNoBaseName = errors.New("file name has no base component")
	errReserved   = errors.New("file name uses reserved prefix")
	errOutside    = errors.New("cannot store file outside current directory")
)

// baseName приводит присланное клиентом имя к базовому компоненту.
// Каталоги отбрасываются, а попытки выйти за пределы root отклоняются целиком.
func baseName(name string) (string, error) {
	if name == "" {
		return "", errEmptyName
	}
	if strings.ContainsRune(name, 0) {
		return "", errBadChars
	}

	// Браузеры под Windows присылают обратные слэши.
	n := strings.ReplaceAll(name, `\`, "/")
	if path.IsAbs(n) || hasDriveLetter(n) {
		return "", errAbsolute
	}
	for _, seg := range strings.Split(n, "/") {
		if seg == ".." {
			return "", errTraversal
		}
	}
	if strings.HasSuffix(n, "/") {
		return "", errNoBaseName
	}

	base := path.Base(n)
	if base == "." || base == "/" || strings.TrimSpace(base) == "" {
		return "", errNoBaseName
	}
	if isTemp(base) {
		return "", errReserved
	}

	return base, nil
}

// isPlainName проверяет, что имя можно разрешить напрямую, без нормализации.
func isPlainName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return false
	}
	return !isTemp(name)
}

// childOf сообщает, лежит ли p непосредственно в root.
func childOf(root, p string) bool {
	return filepath.Dir(p) == filepath.Clean(root) && filepath.Base(p) != ".."
}

func hasDriveLetter(n string) bool {
	if len(n) < 2 || n[1] != ':' {
		return false
	}
	c := n[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTemp(name string) bool {
	return strings.HasPrefix(name, tempPrefix)
}
