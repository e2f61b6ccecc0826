package paths

import (
	"os"
	"path/filepath"
)

const appName = "ghkit"

// PathManager はghkitの設定ファイルのパスを管理するインターフェース
type PathManager interface {
	ConfigDir() string
	ConfigFile() string
	LabelsFile() string
	EnsureDirectories() error
}

type pathManager struct {
	baseDir string
}

// NewPathManager は新しいPathManagerを作成します
// baseDirが空の場合は $XDG_CONFIG_HOME/ghkit、未設定なら ~/.config/ghkit を使う
func NewPathManager(baseDir string) PathManager {
	if baseDir == "" {
		baseDir = defaultBaseDir()
	}
	return &pathManager{
		baseDir: baseDir,
	}
}

func defaultBaseDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return filepath.Join(os.Getenv("HOME"), ".config", appName)
}

// ConfigDir は設定ディレクトリのパスを返します
func (p *pathManager) ConfigDir() string {
	return p.baseDir
}

// ConfigFile はデフォルトの設定ファイルのパスを返します
func (p *pathManager) ConfigFile() string {
	return filepath.Join(p.baseDir, appName+".yml")
}

// LabelsFile は labels sync が読むラベル定義ファイルのパスを返します
func (p *pathManager) LabelsFile() string {
	return filepath.Join(p.baseDir, "labels.yml")
}

// EnsureDirectories は必要なディレクトリを作成します
func (p *pathManager) EnsureDirectories() error {
	return os.MkdirAll(p.baseDir, 0755)
}
