package configwatcher

import (
	"interview_prep_backend/pkg/logger"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloader 在被监听文件稳定写入后回调，参数为文件绝对路径
type Reloader func(path string)

// WatchFile 监听单个文件的写入事件并在防抖后触发 reloader。
// 用于题库文件的热更新：正在进行的会话不受影响，新会话拿到新题库。
func WatchFile(path string, reloader Reloader) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Log.Error("Failed to create file watcher", zap.Error(err))
		return
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(path)
	if err != nil {
		logger.Log.Error("Failed to get absolute path", zap.String("path", path), zap.Error(err))
		return
	}

	if err := watcher.Add(absPath); err != nil {
		logger.Log.Error("Failed to watch file", zap.String("path", absPath), zap.Error(err))
		return
	}

	var mu sync.Mutex
	timer := time.NewTimer(0)
	<-timer.C

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				// 防抖处理
				mu.Lock()
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(1 * time.Second)
				mu.Unlock()
			}
		case <-timer.C:
			reloader(absPath)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("File watcher error", zap.Error(err))
		}
	}
}
