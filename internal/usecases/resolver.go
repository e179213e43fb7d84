package usecases

import (
	"image-optimizer/internal/domain/entities"
)

// DirectiveResolver joins uploaded items to their resize directives and
// turns the match into the transform actually applied.
type DirectiveResolver interface {
	Match(name string, directives []entities.ResizeDirective) *entities.ResizeDirective
	Resolve(item entities.UploadedItem, directives []entities.ResizeDirective) entities.EffectiveTransform
	// TransformFor turns an already matched directive (nil when unmatched) into a transform.
	TransformFor(d *entities.ResizeDirective) entities.EffectiveTransform
}

type nameResolver struct {
	defaultWidth int
}

// NewDirectiveResolver matches directives by exact filename; the first match wins.
func NewDirectiveResolver(defaultWidth int) DirectiveResolver {
	return &nameResolver{defaultWidth: defaultWidth}
}

func (r *nameResolver) Match(name string, directives []entities.ResizeDirective) *entities.ResizeDirective {
	for i := range directives {
		if directives[i].Name == name {
			return &directives[i]
		}
	}
	return nil
}

func (r *nameResolver) Resolve(item entities.UploadedItem, directives []entities.ResizeDirective) entities.EffectiveTransform {
	return r.TransformFor(r.Match(item.Identifier, directives))
}

func (r *nameResolver) TransformFor(d *entities.ResizeDirective) entities.EffectiveTransform {
	if d == nil || !d.HasTarget() {
		return entities.EffectiveTransform{TargetWidth: r.defaultWidth}
	}

	t := entities.EffectiveTransform{AllowUpscale: true}
	if d.TargetWidth != nil && *d.TargetWidth > 0 {
		t.TargetWidth = *d.TargetWidth
	}
	if d.TargetHeight != nil && *d.TargetHeight > 0 {
		t.TargetHeight = *d.TargetHeight
	}
	return t
}
