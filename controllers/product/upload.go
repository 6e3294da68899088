package productcontroller

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const uploadRoot = "/var/www/vitmii/uploads"

// saveImage stores an uploaded file under uploadRoot/<subdir> and returns the
// public path clients use (served by the /uploads static route).
func saveImage(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	dir := filepath.Join(uploadRoot, subdir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %v", err)
	}

	ext := filepath.Ext(file.Filename)
	base := strings.TrimSuffix(filepath.Base(file.Filename), ext)
	base = strings.ReplaceAll(base, " ", "_")
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), base, ext)

	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return "", fmt.Errorf("failed to save image: %v", err)
	}

	return fmt.Sprintf("/uploads/%s/%s", subdir, filename), nil
}

// removeImage deletes a previously saved upload given its public path.
// Missing files are not an error.
func removeImage(publicPath string) error {
	if !strings.HasPrefix(publicPath, "/uploads/") {
		return nil
	}
	localPath := filepath.Join(uploadRoot, strings.TrimPrefix(publicPath, "/uploads/"))
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
