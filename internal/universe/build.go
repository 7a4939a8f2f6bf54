package universe

import (
	"errors"
	"fmt"
	"strings"
)

// ClassError attaches the offending class to a resolution error.
type ClassError struct {
	Class string
	Err   error
}

func (e *ClassError) Error() string { return fmt.Sprintf("class %q: %v", e.Class, e.Err) }

func (e *ClassError) Unwrap() error { return e.Err }

func classErr(name, format string, args ...any) error {
	return &ClassError{Class: name, Err: fmt.Errorf(format, args...)}
}

// Build resolves declarations into a universe. Classes are allocated so that
// every superclass receives a smaller ID than its subclasses.
func Build(decls []Decl) (*Universe, error) {
	u := New()
	pending := make(map[string]*Decl, len(decls))
	order := make([]string, 0, len(decls))
	var errs []error

	for i := range decls {
		d := &decls[i]
		name := Normalize(strings.TrimSpace(d.Name))
		if name == "" {
			errs = append(errs, fmt.Errorf("class #%d: empty name", i+1))
			continue
		}
		if _, dup := pending[name]; dup || name == RootName {
			errs = append(errs, classErr(name, "%w", ErrDuplicateClass))
			continue
		}
		pending[name] = d
		order = append(order, name)
	}

	const (
		unvisited = iota
		visiting
		done
		failed
	)
	errFailed := errors.New("already reported")
	state := make(map[string]int, len(pending))
	var place func(name string, chain []string) error
	place = func(name string, chain []string) error {
		switch state[name] {
		case done:
			return nil
		case failed:
			return errFailed
		case visiting:
			return classErr(name, "%w: %s", ErrCycle, strings.Join(append(chain, name), " -> "))
		}
		d := pending[name]
		state[name] = visiting
		superName := Normalize(strings.TrimSpace(d.Super))
		if superName == "" {
			superName = RootName
		}
		if superName != RootName {
			if _, ok := pending[superName]; !ok {
				return classErr(name, "superclass %w: %q", ErrUnknownClass, superName)
			}
			if err := place(superName, append(chain, name)); err != nil {
				return err
			}
		}
		super := u.byName[superName]
		u.alloc(ClassInfo{
			Name:  name,
			Super: super,
			Flags: d.Flags,
			Depth: u.classes[super].Depth + 1,
		})
		state[name] = done
		return nil
	}
	for _, name := range order {
		if err := place(name, nil); err != nil {
			if !errors.Is(err, errFailed) {
				errs = append(errs, err)
			}
			// the whole chain is poisoned so it is not reported twice
			for n, s := range state {
				if s == visiting {
					state[n] = failed
				}
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, name := range order {
		d := pending[name]
		info := &u.classes[u.byName[name]]
		for _, raw := range d.Implements {
			iface, ok := u.Lookup(strings.TrimSpace(raw))
			if !ok {
				errs = append(errs, classErr(name, "implements %w: %q", ErrUnknownClass, raw))
				continue
			}
			if u.IsSubclassOf(info.Super, iface) || iface == u.byName[name] {
				errs = append(errs, classErr(name, "cannot implement its own superclass %q", raw))
				continue
			}
			info.Interfaces = appendUnique(info.Interfaces, iface)
		}
		for _, raw := range d.Instantiates {
			target, ok := u.Lookup(strings.TrimSpace(raw))
			if !ok {
				errs = append(errs, classErr(name, "instantiates %w: %q", ErrUnknownClass, raw))
				continue
			}
			info.Instantiates = appendUnique(info.Instantiates, target)
		}
	}
	if err := u.checkSupertypeCycles(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return u, nil
}

// checkSupertypeCycles rejects declarations whose superclass and implements
// edges together form a cycle, such as a class implementing its own subclass.
func (u *Universe) checkSupertypeCycles() error {
	const (
		visiting = 1
		done     = 2
	)
	state := make([]uint8, len(u.classes))
	var visit func(id ClassID, path []string) error
	visit = func(id ClassID, path []string) error {
		path = append(path, u.Name(id))
		switch state[id] {
		case done:
			return nil
		case visiting:
			return classErr(u.Name(id), "%w: %s", ErrCycle, strings.Join(path, " <: "))
		}
		state[id] = visiting
		info := &u.classes[id]
		if info.Super.IsValid() {
			if err := visit(info.Super, path); err != nil {
				return err
			}
		}
		for _, iface := range info.Interfaces {
			if err := visit(iface, path); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for _, id := range u.Classes() {
		if err := visit(id, nil); err != nil {
			return err
		}
	}
	return nil
}

func appendUnique(list []ClassID, id ClassID) []ClassID {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}
