package options

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
)

type LauncherOption func(*launcher.Launcher)

// CreateLauncher 创建 rod 的启动器,userMode 为 true 时复用本机已安装的浏览器与用户目录
func CreateLauncher(userMode bool, opts ...LauncherOption) *launcher.Launcher {
	var l *launcher.Launcher
	if userMode {
		l = launcher.NewUserMode()
	} else {
		l = launcher.New()
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func WithBin(bin string) LauncherOption {
	return func(l *launcher.Launcher) {
		if bin != "" {
			l.Bin(bin)
		}
	}
}

func WithUserDataDir(dir string) LauncherOption {
	return func(l *launcher.Launcher) {
		if dir != "" {
			l.UserDataDir(dir)
		}
	}
}

func WithHeadless(headless bool) LauncherOption {
	return func(l *launcher.Launcher) {
		l.Headless(headless)
	}
}

func WithWindowSize(width, height int) LauncherOption {
	return func(l *launcher.Launcher) {
		if width > 0 && height > 0 {
			l.Set("window-size", fmt.Sprintf("%d,%d", width, height))
		}
	}
}

func WithDisableBlinkFeatures(features string) LauncherOption {
	return func(l *launcher.Launcher) {
		if features != "" {
			l.Set("disable-blink-features", features)
		}
	}
}

func WithDisableDevShmUsage(disable bool) LauncherOption {
	return func(l *launcher.Launcher) {
		if disable {
			l.Set("disable-dev-shm-usage")
		}
	}
}

func WithNoSandbox(noSandbox bool) LauncherOption {
	return func(l *launcher.Launcher) {
		l.NoSandbox(noSandbox)
	}
}

func WithUserAgent(userAgent string) LauncherOption {
	return func(l *launcher.Launcher) {
		if userAgent != "" {
			l.Set("user-agent", userAgent)
		}
	}
}

func WithLeakless(leakless bool) LauncherOption {
	return func(l *launcher.Launcher) {
		l.Leakless(leakless)
	}
}

// WithDisableImages 不加载图片
func WithDisableImages(disable bool) LauncherOption {
	return func(l *launcher.Launcher) {
		if disable {
			l.Set("blink-settings", "imagesEnabled=false")
		}
	}
}

// WithQuietBrowser 关闭 gpu、扩展与插件
func WithQuietBrowser() LauncherOption {
	return func(l *launcher.Launcher) {
		l.Set("disable-gpu").
			Set("disable-extensions").
			Set("disable-plugins")
	}
}
