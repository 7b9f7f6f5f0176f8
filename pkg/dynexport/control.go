package dynexport

import (
	"context"
	"strconv"

	"github.com/randalmurphal/dynexport/pkg/dynexport/attrfs"
	"github.com/randalmurphal/dynexport/pkg/dynexport/observability"
)

// controlAttrs returns the write-only "export" and "unexport" class attributes.
// The attribute layer carries no context, so the handlers start from
// context.Background.
func (r *Registry) controlAttrs() []attrfs.ClassAttr {
	return []attrfs.ClassAttr{
		{Name: "export", Store: r.storeExport},
		{Name: "unexport", Store: r.storeUnexport},
	}
}

func (r *Registry) storeExport(text string) error {
	id, err := ParseInteger(text)
	if err != nil {
		observability.LogInvalidInput(r.logger, "export", text, err)
		return err
	}
	_, err = r.Create(context.Background(), id)
	return err
}

func (r *Registry) storeUnexport(text string) error {
	id, err := ParseInteger(text)
	if err != nil {
		observability.LogInvalidInput(r.logger, "unexport", text, err)
		return err
	}
	return r.Destroy(context.Background(), id)
}

// recordAttrs returns the per-node attribute group.
func (r *Registry) recordAttrs() []attrfs.Attr[*Record] {
	return []attrfs.Attr[*Record]{
		r.fieldAttr("field_a", (*Record).FieldA, (*Record).SetFieldA),
		r.fieldAttr("field_b", (*Record).FieldB, (*Record).SetFieldB),
	}
}

func (r *Registry) fieldAttr(
	name string,
	get func(*Record) (int64, error),
	set func(*Record, int64) error,
) attrfs.Attr[*Record] {
	return attrfs.Attr[*Record]{
		Name: name,
		Show: func(rec *Record) (string, error) {
			v, err := get(rec)
			if err != nil {
				return "", err
			}
			return strconv.FormatInt(v, 10), nil
		},
		Store: func(rec *Record, text string) error {
			v, err := parseField(text)
			if err != nil {
				observability.LogInvalidInput(r.logger, name, text, err)
				return err
			}
			return set(rec, v)
		},
	}
}
