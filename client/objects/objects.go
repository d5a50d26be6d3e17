package objects

import (
	"fmt"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// GameObject is the highest level interface for game related types.
type GameObject interface {
	Lifecycle

	GetID() string
	GetZIndex() int
	GetParent() GameObject
	SetParent(parent GameObject)
	GetChildren() []GameObject
	AddChild(child GameObject) error
	RemoveChild(id string) error
	RemoveFromParent() error
}

// BaseObject implements the tree bookkeeping of a GameObject. Children are
// kept sorted by z-index so they are drawn back to front.
type BaseObject struct {
	id       string
	zIndex   int
	parent   GameObject
	children []GameObject
}

var _ GameObject = &BaseObject{}

type NewBaseObjectOpts struct {
	// ZIndex orders siblings when drawing. Higher is drawn later.
	ZIndex int
}

func NewBaseObject(id string, opts *NewBaseObjectOpts) *BaseObject {
	o := &BaseObject{
		id:       id,
		children: make([]GameObject, 0),
	}
	if opts != nil {
		o.zIndex = opts.ZIndex
	}
	return o
}

func (o *BaseObject) GetID() string               { return o.id }
func (o *BaseObject) GetZIndex() int              { return o.zIndex }
func (o *BaseObject) GetParent() GameObject       { return o.parent }
func (o *BaseObject) SetParent(parent GameObject) { o.parent = parent }
func (o *BaseObject) GetChildren() []GameObject   { return o.children }

func (o *BaseObject) Init() error               { return nil }
func (o *BaseObject) Destroy() error            { return nil }
func (o *BaseObject) Update() error             { return nil }
func (o *BaseObject) Draw(screen *ebiten.Image) {}

// AddChild attaches child. The child tree is initialized by the next InitTree
// on an ancestor, or by the caller when the ancestor is already running.
func (o *BaseObject) AddChild(child GameObject) error {
	for _, c := range o.children {
		if c.GetID() == child.GetID() {
			return fmt.Errorf("child object with id %s already exists", child.GetID())
		}
	}
	child.SetParent(o)
	i := sort.Search(len(o.children), func(i int) bool {
		return o.children[i].GetZIndex() > child.GetZIndex()
	})
	o.children = append(o.children, nil)
	copy(o.children[i+1:], o.children[i:])
	o.children[i] = child
	return nil
}

func (o *BaseObject) RemoveChild(id string) error {
	for i, child := range o.children {
		if child.GetID() != id {
			continue
		}
		if err := DestroyTree(child); err != nil {
			return fmt.Errorf("failed to destroy child object tree: %v", err)
		}
		child.SetParent(nil)
		o.children = append(o.children[:i:i], o.children[i+1:]...)
		return nil
	}
	return fmt.Errorf("child object with id %s does not exist", id)
}

func (o *BaseObject) RemoveFromParent() error {
	if o.parent == nil {
		return nil
	}
	return o.parent.RemoveChild(o.id)
}
