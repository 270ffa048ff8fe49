package configwatcher

import (
	"classhub_backend/internal/config"
	"classhub_backend/pkg/logger"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = time.Second

// WatchConfig 监视配置文件的写入并在防抖后整体重载。
// 编辑器保存时往往触发多次写事件，以最后一次为准
func WatchConfig(configPath string, reload func(*config.Config)) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal("Failed to create config watcher:", err)
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		log.Fatal("Failed to get absolute path:", err)
	}
	if err := watcher.Add(absPath); err != nil {
		log.Fatal("Failed to watch config file:", err)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
		case <-timer.C:
			newCfg, err := config.LoadConfig(filepath.Dir(absPath))
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			reload(newCfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
