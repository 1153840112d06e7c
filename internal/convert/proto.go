// Package convert maps domain models to and from protobuf well-known types.
package convert

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/achbook/internal/model"
)

// Field names of the GiveBook response.
const (
	FieldPages   = "pages"
	FieldAuthor  = "author"
	FieldTitle   = "title"
	FieldLore    = "lore"
	FieldMessage = "message"
	FieldEffects = "effects"
	FieldKind    = "kind"
	FieldName    = "name"
)

// ToProtoDelivery encodes a delivery as a Struct.
func ToProtoDelivery(d model.Delivery) (*structpb.Struct, error) {
	pages := make([]any, len(d.Book.Pages))
	for i, p := range d.Book.Pages {
		pages[i] = p
	}
	fx := make([]any, len(d.Effects))
	for i, e := range d.Effects {
		fx[i] = map[string]any{FieldKind: e.Kind, FieldName: e.Name}
	}
	return structpb.NewStruct(map[string]any{
		FieldPages:   pages,
		FieldAuthor:  d.Book.Author,
		FieldTitle:   d.Book.Title,
		FieldLore:    d.Book.Lore,
		FieldMessage: d.Message,
		FieldEffects: fx,
	})
}

// FromProtoDelivery decodes a Struct produced by ToProtoDelivery.
func FromProtoDelivery(s *structpb.Struct) (model.Delivery, error) {
	if s == nil {
		return model.Delivery{}, errors.New("nil delivery")
	}
	f := s.GetFields()
	var d model.Delivery
	d.Book.Author = f[FieldAuthor].GetStringValue()
	d.Book.Title = f[FieldTitle].GetStringValue()
	d.Book.Lore = f[FieldLore].GetStringValue()
	d.Message = f[FieldMessage].GetStringValue()

	for i, v := range f[FieldPages].GetListValue().GetValues() {
		sv, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return model.Delivery{}, fmt.Errorf("page[%d]: not a string", i)
		}
		d.Book.Pages = append(d.Book.Pages, sv.StringValue)
	}
	for i, v := range f[FieldEffects].GetListValue().GetValues() {
		st := v.GetStructValue()
		if st == nil {
			return model.Delivery{}, fmt.Errorf("effect[%d]: not an object", i)
		}
		d.Effects = append(d.Effects, model.Effect{
			Kind: st.GetFields()[FieldKind].GetStringValue(),
			Name: st.GetFields()[FieldName].GetStringValue(),
		})
	}
	return d, nil
}
