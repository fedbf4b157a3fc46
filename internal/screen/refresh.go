package screen

import "time"

// refreshTask is the handle of the periodic position refresh. A task is
// stopped by closing stop; ticks already queued on the UI goroutine check
// that their task is still current before touching the widgets.
type refreshTask struct {
	stop chan struct{}
}

func (s *Screen) startRefresh() {
	s.stopRefresh()
	t := &refreshTask{stop: make(chan struct{})}
	s.task = t

	interval := s.interval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				s.dispatch(func() {
					if s.task == t {
						s.refresh()
					}
				})
			}
		}
	}()
}

func (s *Screen) stopRefresh() {
	if s.task == nil {
		return
	}
	close(s.task.stop)
	s.task = nil
}

// refresh copies the playback position into the label and slider unless
// the user is dragging the slider.
func (s *Screen) refresh() {
	if s.dragging || s.state != Playing {
		return
	}
	s.show(s.ctrl.Position())
}
