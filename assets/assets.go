// Package assets loads the widget bundle from disk. A missing file is not
// fatal: the corresponding block of the component HTML is simply empty.
package assets

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Catalog holds the widget assets as loaded at startup.
type Catalog struct {
	Stylesheet string
	Script     string
}

// Load reads kanban.css and kanban.js from dir. Each read failure is logged
// as a warning and yields empty content.
func Load(dir string, logger *log.Logger) Catalog {
	return Catalog{
		Stylesheet: readTextAsset(dir, "kanban.css", logger),
		Script:     readTextAsset(dir, "kanban.js", logger),
	}
}

func readTextAsset(dir, filename string, logger *log.Logger) string {
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		logger.WithFields(log.Fields{"asset": filename, "error": err.Error()}).Warn("failed to load asset")
		return ""
	}
	return string(data)
}

// ComponentHTML assembles the widget fragment: the mount point followed by
// whichever of the style and script blocks actually loaded.
func (c Catalog) ComponentHTML() string {
	styleTag := ""
	if c.Stylesheet != "" {
		styleTag = fmt.Sprintf("<style>%s</style>", c.Stylesheet)
	}
	scriptTag := ""
	if c.Script != "" {
		scriptTag = fmt.Sprintf("<script>%s</script>", c.Script)
	}
	return fmt.Sprintf("\n    <div id=\"kanban-root\"></div>\n    %s\n    %s\n  ", styleTag, scriptTag)
}
