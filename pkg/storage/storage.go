package storage

import (
	"io"
)

type Getter interface {
	Get(elem ...string) ([]byte, error)
}

type Lister interface {
	ListDirs(elem ...string) ([]string, error)
	ListFiles(exts []string, elem ...string) ([]string, error)
}

type Creater interface {
	EnsureDir(elem ...string) (bool, error)
}

type Writer interface {
	WriteAtomic(dir, name string, write func(w io.Writer) error) (string, error)
}

type Storage interface {
	Getter
	Lister
	Creater
	Writer
}
