package domain

import (
	"path"
	"sort"
	"strings"
)

// FileKind classifies a project file for scoring and grouping
type FileKind string

const (
	FileKindPage      FileKind = "page"
	FileKindComponent FileKind = "component"
	FileKindUtil      FileKind = "util"
	FileKindType      FileKind = "type"
	FileKindOther     FileKind = "other"
)

// FileKinds lists every kind in report grouping order
var FileKinds = []FileKind{FileKindPage, FileKindComponent, FileKindUtil, FileKindType, FileKindOther}

// ParseFileKind maps a kind label to a FileKind. Unknown labels become other.
func ParseFileKind(s string) FileKind {
	switch FileKind(strings.ToLower(strings.TrimSpace(s))) {
	case FileKindPage:
		return FileKindPage
	case FileKindComponent:
		return FileKindComponent
	case FileKindUtil:
		return FileKindUtil
	case FileKindType:
		return FileKindType
	default:
		return FileKindOther
	}
}

// ClassifyFileKind derives a kind from a file path using the path-substring rules
// of the ingestion layer. The first matching rule wins.
func ClassifyFileKind(filePath string) FileKind {
	p := strings.ToLower(filePath)
	switch {
	case strings.Contains(p, "page.") || strings.Contains(p, "layout."):
		return FileKindPage
	case strings.Contains(p, "component"):
		return FileKindComponent
	case strings.Contains(p, "utils") || strings.Contains(p, "lib"):
		return FileKindUtil
	case strings.Contains(p, "types") || strings.HasSuffix(p, ".d.ts"):
		return FileKindType
	default:
		return FileKindOther
	}
}

// FileAnalysis holds the pre-extracted facts about one file
type FileAnalysis struct {
	FileName        string   `json:"fileName" yaml:"file_name"`
	FullPath        string   `json:"fullPath" yaml:"full_path"`
	FileType        FileKind `json:"fileType" yaml:"file_type"`
	LocalImports    []string `json:"localImports" yaml:"local_imports"`
	ExternalImports []string `json:"externalImports" yaml:"external_imports"`
	LinesOfCode     int      `json:"linesOfCode" yaml:"lines_of_code"`
}

// ProjectFile is the input descriptor of a project file
type ProjectFile struct {
	Name     string       `json:"name" yaml:"name"`
	Path     string       `json:"path" yaml:"path"`
	Size     int64        `json:"size" yaml:"size"`
	Analysis FileAnalysis `json:"analysis" yaml:"analysis"`
}

// FileStructure groups project files by directory
type FileStructure map[string][]ProjectFile

// FileRecord is the flattened per-file input consumed by the graph builder
type FileRecord struct {
	Path            string
	Name            string
	Kind            FileKind
	LocalImports    []string
	ExternalImports []string
}

// Records flattens the structure into file records. Directories are visited in
// lexical order and files keep their slice order, so the result is deterministic.
func (fs FileStructure) Records() []FileRecord {
	dirs := make([]string, 0, len(fs))
	for dir := range fs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var records []FileRecord
	for _, dir := range dirs {
		for _, f := range fs[dir] {
			records = append(records, f.Record())
		}
	}
	return records
}

// FileCount returns the number of file descriptors across all directories
func (fs FileStructure) FileCount() int {
	n := 0
	for _, files := range fs {
		n += len(files)
	}
	return n
}

// Record converts a descriptor into a FileRecord. The descriptor path is the
// node key; the analysis full path is used only when the descriptor has none.
func (f ProjectFile) Record() FileRecord {
	p := f.Path
	if p == "" {
		p = f.Analysis.FullPath
	}
	name := f.Name
	if name == "" {
		name = f.Analysis.FileName
	}
	if name == "" {
		name = path.Base(p)
	}
	return FileRecord{
		Path:            p,
		Name:            name,
		Kind:            ParseFileKind(string(f.Analysis.FileType)),
		LocalImports:    f.Analysis.LocalImports,
		ExternalImports: f.Analysis.ExternalImports,
	}
}

// IsLocalSpecifier reports whether an import specifier points into the project:
// relative or root-absolute specifiers
func IsLocalSpecifier(spec string) bool {
	return strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/")
}

// ExternalLibrary counts how many import statements reference a package
type ExternalLibrary struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}
