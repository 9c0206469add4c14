package script

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

const debounce = 100 * time.Millisecond

// Watcher reports changed .tengo files in a set of directories. Events are
// delivered on a buffered channel; nothing is applied from the watcher's
// goroutine.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching dirs.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, eris.Wrap(err, "create watcher")
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, eris.Wrapf(err, "watch %s", dir)
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// run reports a file once it has been quiet for the debounce interval, so a
// burst of writes yields a single event after the last one.
func (w *Watcher) run() {
	defer close(w.done)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()
	fire := make(chan string)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isScriptFile(event.Name) {
				continue
			}
			name := event.Name
			if t, ok := timers[name]; ok {
				t.Reset(debounce)
				continue
			}
			timers[name] = time.AfterFunc(debounce, func() {
				select {
				case fire <- name:
				case <-w.closeCh:
				}
			})
		case name := <-fire:
			delete(timers, name)
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func isScriptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}

// Reloader applies script file changes to the components loaded from those
// files. It is driven from the goroutine that owns the scene tree.
type Reloader struct {
	watcher *Watcher
	byPath  map[string][]*Component
	log     zerolog.Logger
}

// NewReloader creates a Reloader fed by w. w may be nil, in which case only
// explicit Reload calls do anything.
func NewReloader(w *Watcher, log zerolog.Logger) *Reloader {
	return &Reloader{
		watcher: w,
		byPath:  make(map[string][]*Component),
		log:     log,
	}
}

// Track registers c for reloads of its source file. Components without a
// path, and components already tracked, are ignored.
func (r *Reloader) Track(c *Component) {
	if c.Path() == "" {
		return
	}
	key := normalize(c.Path())
	if slices.Contains(r.byPath[key], c) {
		return
	}
	r.byPath[key] = append(r.byPath[key], c)
}

// Poll drains pending watcher events without blocking and reloads the
// affected components.
//
// Returns:
//   - The number of components reloaded.
//   - The first error met, after all pending events were processed.
func (r *Reloader) Poll() (int, error) {
	if r.watcher == nil {
		return 0, nil
	}
	var (
		total    int
		firstErr error
	)
	for {
		select {
		case name, ok := <-r.watcher.Events:
			if !ok {
				return total, firstErr
			}
			n, err := r.Reload(name)
			total += n
			if err != nil && firstErr == nil {
				firstErr = err
			}
		case err, ok := <-r.watcher.Errors:
			if ok && firstErr == nil {
				firstErr = eris.Wrap(err, "watch scripts")
			}
		default:
			return total, firstErr
		}
	}
}

// Reload reads path and recompiles every live component tracked for it.
// Destroyed components are forgotten.
func (r *Reloader) Reload(path string) (int, error) {
	key := normalize(path)
	tracked := r.byPath[key]
	if len(tracked) == 0 {
		return 0, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return 0, eris.Wrapf(err, "read script %s", path)
	}

	live := tracked[:0]
	for _, c := range tracked {
		if !c.IsDestroyed() {
			live = append(live, c)
		}
	}
	clear(tracked[len(live):])
	if len(live) == 0 {
		delete(r.byPath, key)
		return 0, nil
	}
	r.byPath[key] = live

	for _, c := range live {
		if err := c.Reload(src); err != nil {
			r.log.Error().Err(err).Str("path", path).Msg("script reload failed")
			return 0, eris.Wrapf(err, "reload %s", path)
		}
	}
	r.log.Info().Str("path", path).Int("components", len(live)).Msg("script reloaded")
	return len(live), nil
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
