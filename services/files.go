package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/omshejul/cli-tools-frontend/types"
)

// FileService interface defines methods for browsing finished downloads
type FileService interface {
	ScanMediaFiles(rootPath string) ([]types.MediaFile, error)
	ExtractAudioMetadata(filePath string) *types.AudioMetadata
	ValidateFilePath(path string) error
	GetContentType(filePath string) string
}

// fileService implements the FileService interface
type fileService struct{}

// NewFileService creates a new file service
func NewFileService() FileService {
	return &fileService{}
}

// mediaContentTypes maps the extensions of files the processing service
// produces to their MIME types
var mediaContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".opus": "audio/ogg",
	".wav":  "audio/wav",
}

// audioExtensions are the formats worth probing for tags
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
	".opus": true,
}

// ScanMediaFiles recursively scans a directory for finished downloads
func (fs *fileService) ScanMediaFiles(rootPath string) ([]types.MediaFile, error) {
	var files []types.MediaFile

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("Error accessing path %s: %v", path, err)
			return nil // Continue walking, don't fail entire scan
		}

		ext := strings.ToLower(filepath.Ext(path))
		if info.IsDir() {
			return nil
		}
		if _, known := mediaContentTypes[ext]; !known {
			return nil
		}

		relativePath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relativePath = path // fallback to absolute path
		}

		var metadata *types.AudioMetadata
		if audioExtensions[ext] {
			metadata = fs.ExtractAudioMetadata(path)
		}

		files = append(files, types.MediaFile{
			Filename: info.Name(),
			Path:     relativePath,
			Size:     info.Size(),
			Format:   strings.TrimPrefix(ext, "."),
			Metadata: metadata,
		})

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// ExtractAudioMetadata reads tags from an audio download, falling back
// to the filename when the file carries none
func (fs *fileService) ExtractAudioMetadata(filePath string) *types.AudioMetadata {
	metadata := &types.AudioMetadata{}

	file, err := os.Open(filePath)
	if err != nil {
		log.Printf("Warning: Could not open audio file %s: %v", filePath, err)
		return fallbackMetadata(filePath)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		log.Printf("Warning: Could not parse audio metadata from %s: %v", filePath, err)
		return fallbackMetadata(filePath)
	}

	metadata.Title = meta.Title()
	metadata.Artist = meta.Artist()
	metadata.Album = meta.Album()

	track, _ := meta.Track()
	metadata.TrackNumber = track

	if metadata.Title == "" {
		metadata.Title = fallbackMetadata(filePath).Title
	}

	return metadata
}

// fallbackMetadata derives a title from the filename
func fallbackMetadata(filePath string) *types.AudioMetadata {
	filename := filepath.Base(filePath)
	return &types.AudioMetadata{
		Title: strings.TrimSuffix(filename, filepath.Ext(filename)),
	}
}

// ValidateFilePath checks for path traversal attempts and other security issues
func (fs *fileService) ValidateFilePath(path string) error {
	// Check for path traversal attempts
	if strings.Contains(path, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	// Check for absolute paths
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("absolute paths not allowed")
	}

	// Check for empty path
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path not allowed")
	}

	return nil
}

// GetContentType returns the appropriate MIME type for a media file
func (fs *fileService) GetContentType(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	if contentType, ok := mediaContentTypes[ext]; ok {
		return contentType
	}
	return "application/octet-stream"
}
