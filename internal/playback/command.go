package playback

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Platform идентификатор ОС в формате runtime.GOOS
type Platform string

const (
	PlatformDarwin  Platform = "darwin"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
)

// DefaultXDGRuntimeDir используется, если XDG_RUNTIME_DIR не задан
const DefaultXDGRuntimeDir = "/run/user/1000"

// ErrUnsupportedPlatform возвращается для ОС без плеера
var ErrUnsupportedPlatform = errors.New("неподдерживаемая платформа")

// CurrentPlatform возвращает платформу текущего процесса
func CurrentPlatform() Platform {
	return Platform(runtime.GOOS)
}

// Command внешняя команда плеера.
// Env дополняет окружение процесса, а не заменяет его.
type Command struct {
	Name string
	Args []string
	Env  []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// PlanCommand выбирает команду воспроизведения для платформы
func PlanCommand(p Platform, path string, getenv func(string) string) (Command, error) {
	switch p {
	case PlatformDarwin:
		return Command{Name: "afplay", Args: []string{path}}, nil
	case PlatformLinux:
		// Процесс может работать вне сессии пользователя, поэтому
		// сервер PulseAudio и cookie передаются явно
		return Command{
			Name: "paplay",
			Args: []string{path},
			Env:  PulseEnv(getenv),
		}, nil
	case PlatformWindows:
		script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", strings.ReplaceAll(path, "'", "''"))
		return Command{Name: "powershell", Args: []string{"-c", script}}, nil
	default:
		return Command{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, p)
	}
}

// PulseEnv строит переменные окружения для клиента PulseAudio
func PulseEnv(getenv func(string) string) []string {
	runtimeDir := getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = DefaultXDGRuntimeDir
	}
	return []string{
		"PULSE_SERVER=unix:" + runtimeDir + "/pulse/native",
		"PULSE_COOKIE=" + getenv("HOME") + "/.config/pulse/cookie",
	}
}
