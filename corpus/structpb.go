package corpus

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/itfaker/codec"
	"github.com/unkn0wn-root/itfaker/weighted"
)

// StructCodec stores a Document as a protobuf google.protobuf.Struct with the
// same shape as the JSON reference format. It lets publishers that already
// speak protobuf feed a Store without a generated schema.
type StructCodec struct {
	pb codec.Protobuf[*structpb.Struct]
}

var _ codec.Codec[Document] = StructCodec{}

func NewStructCodec() StructCodec {
	return StructCodec{pb: codec.NewProtobuf(func() *structpb.Struct { return &structpb.Struct{} })}
}

func (c StructCodec) Encode(d Document) ([]byte, error) {
	list := make([]any, len(d.Items))
	for i, it := range d.Items {
		list[i] = map[string]any{"value": it.Value, "weight": it.Weight}
	}
	st, err := structpb.NewStruct(map[string]any{"items": list})
	if err != nil {
		return nil, err
	}
	return c.pb.Encode(st)
}

func (c StructCodec) Decode(b []byte) (Document, error) {
	st, err := c.pb.Decode(b)
	if err != nil {
		return Document{}, err
	}
	lv := st.GetFields()["items"].GetListValue()
	if lv == nil {
		return Document{}, fmt.Errorf("corpus: struct has no items list")
	}
	items := make([]weighted.Item[string], 0, len(lv.GetValues()))
	for i, v := range lv.GetValues() {
		fields := v.GetStructValue().GetFields()
		val, ok := fields["value"].GetKind().(*structpb.Value_StringValue)
		if !ok {
			return Document{}, fmt.Errorf("corpus: item %d: value is not a string", i)
		}
		w, ok := fields["weight"].GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return Document{}, fmt.Errorf("corpus: item %d: weight is not a number", i)
		}
		items = append(items, weighted.Item[string]{Value: val.StringValue, Weight: w.NumberValue})
	}
	return Document{Items: items}, nil
}
