// Package rules holds the static classification data: the extension to
// category table and the ordered keyword rule set.
package rules

import "strings"

// FallbackCategory is the reserved bucket for files no strategy matches.
const FallbackCategory = "Other"

// categoryTable maps lower-cased extensions (including the dot) to categories.
var categoryTable = map[string]string{
	// Images
	".jpg": "Images", ".jpeg": "Images", ".png": "Images", ".gif": "Images",
	".svg": "Images", ".webp": "Images", ".ico": "Images", ".bmp": "Images",
	".tiff": "Images", ".heic": "Images",

	// Documents
	".pdf": "Documents", ".doc": "Documents", ".docx": "Documents",
	".xls": "Documents", ".xlsx": "Documents", ".ppt": "Documents",
	".pptx": "Documents", ".odt": "Documents", ".rtf": "Documents",
	".epub": "Documents",

	// Videos
	".mp4": "Videos", ".mkv": "Videos", ".avi": "Videos", ".mov": "Videos",
	".webm": "Videos", ".wmv": "Videos", ".flv": "Videos", ".m4v": "Videos",

	// Audio
	".mp3": "Audio", ".wav": "Audio", ".flac": "Audio", ".m4a": "Audio",
	".ogg": "Audio", ".aac": "Audio", ".wma": "Audio",

	// Archives
	".zip": "Archives", ".rar": "Archives", ".7z": "Archives",
	".tar": "Archives", ".gz": "Archives", ".bz2": "Archives",
	".xz": "Archives", ".iso": "Archives",

	// Code
	".py": "Code", ".js": "Code", ".ts": "Code", ".html": "Code",
	".css": "Code", ".json": "Code", ".xml": "Code", ".java": "Code",
	".c": "Code", ".cpp": "Code", ".h": "Code", ".go": "Code",
	".rs": "Code", ".rb": "Code", ".php": "Code", ".sql": "Code",
	".yaml": "Code", ".yml": "Code",

	// Executables
	".exe": "Executables", ".msi": "Executables", ".dmg": "Executables",
	".app": "Executables", ".deb": "Executables", ".rpm": "Executables",
	".bat": "Executables", ".sh": "Executables", ".appimage": "Executables",

	// Fonts
	".ttf": "Fonts", ".otf": "Fonts", ".woff": "Fonts", ".woff2": "Fonts",
}

// ambiguousExtensions are text-like extensions that never classify confidently
// by extension alone; they always proceed through the keyword and AI steps.
var ambiguousExtensions = map[string]bool{
	".txt": true, ".log": true, ".md": true, ".csv": true, ".dat": true,
}

// imageExtensions marks files eligible for vision classification. The set
// includes image types the category table doesn't know, so camera formats
// like .jfif still get a vision pass instead of the fallback bucket.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".jfif": true, ".heif": true,
}

// textExtensions marks files whose contents can be read for AI content
// classification.
var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".py": true, ".js": true, ".html": true,
	".css": true, ".json": true, ".xml": true, ".csv": true, ".log": true,
}

// categoryNames is every valid category, fallback included, in a stable order.
var categoryNames = []string{
	"Images", "Documents", "Videos", "Audio",
	"Archives", "Code", "Executables", "Fonts", FallbackCategory,
}

// CategoryForExtension looks up the category for a lower-cased extension.
func CategoryForExtension(ext string) (string, bool) {
	category, ok := categoryTable[strings.ToLower(ext)]
	return category, ok
}

// IsAmbiguous reports whether an extension needs keyword or AI classification.
// An extension is ambiguous when it is absent from the category table or is
// one of the designated text-like extensions.
func IsAmbiguous(ext string) bool {
	ext = strings.ToLower(ext)
	if ambiguousExtensions[ext] {
		return true
	}
	_, known := categoryTable[ext]
	return !known
}

// IsImage reports whether the extension is a vision-classifiable image type.
func IsImage(ext string) bool {
	return imageExtensions[strings.ToLower(ext)]
}

// IsTextReadable reports whether the file's contents can be sampled as text.
func IsTextReadable(ext string) bool {
	return textExtensions[strings.ToLower(ext)]
}

// CategoryNames returns every valid category name, fallback included.
func CategoryNames() []string {
	names := make([]string, len(categoryNames))
	copy(names, categoryNames)
	return names
}

// IsCategory reports whether name is a known category folder name.
func IsCategory(name string) bool {
	for _, c := range categoryNames {
		if c == name {
			return true
		}
	}
	return false
}

// NormalizeCategory maps free-form classifier output onto a known category.
// Matching is case-insensitive substring, mirroring how the model's answers
// are validated against the category list. Returns false if nothing matches.
func NormalizeCategory(raw string) (string, bool) {
	lowered := strings.ToLower(raw)
	for _, c := range categoryNames {
		if strings.Contains(lowered, strings.ToLower(c)) {
			return c, true
		}
	}
	return "", false
}
