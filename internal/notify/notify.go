package notify

import "github.com/gen2brain/beeep"

// Desktop pushes alerts through the OS notification center. Delivery
// is fire-and-forget; callers treat a failed push the same as a
// delivered one.
type Desktop struct {
	AppIcon string
}

func (d Desktop) Push(title, body string) error {
	return beeep.Notify(title, body, d.AppIcon)
}
