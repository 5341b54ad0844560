package ledgerpb

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

func TestServiceRegistered(t *testing.T) {
	d, err := protoregistry.GlobalFiles.FindDescriptorByName("ledger.v1.LedgerService")
	if err != nil {
		t.Fatal(err)
	}
	methods := d.(protoreflect.ServiceDescriptor).Methods()
	if methods.Len() != len(LedgerService_ServiceDesc.Methods) {
		t.Fatalf("methods=%d want %d", methods.Len(), len(LedgerService_ServiceDesc.Methods))
	}
	for _, m := range LedgerService_ServiceDesc.Methods {
		if methods.ByName(protoreflect.Name(m.MethodName)) == nil {
			t.Fatalf("method %s missing from descriptor", m.MethodName)
		}
	}
}

func TestFieldNumbersMatchSchema(t *testing.T) {
	tests := []struct {
		msg    proto.Message
		field  protoreflect.Name
		number protoreflect.FieldNumber
	}{
		{&TransferRequest{}, "client_txn_id", 4},
		{&TransactionReply{}, "balances", 9},
		{&TransactionReply{}, "created_at", 12},
		{&GetHistoryRequest{}, "before", 3},
		{&GetHistoryReply{}, "next_before", 2},
	}
	for _, tt := range tests {
		fd := tt.msg.ProtoReflect().Descriptor().Fields().ByName(tt.field)
		if fd == nil || fd.Number() != tt.number {
			t.Fatalf("%s.%s: %v", tt.msg.ProtoReflect().Descriptor().FullName(), tt.field, fd)
		}
	}
}

func TestReplyWireFormat(t *testing.T) {
	reply := &TransactionReply{
		TransactionId: "t-1",
		Sequence:      7,
		Balances:      []*BalanceChange{{AccountId: 1, Before: "100", After: "70", Version: 1}},
	}
	b, err := proto.Marshal(reply)
	if err != nil {
		t.Fatal(err)
	}
	var got TransactionReply
	if err := proto.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if !proto.Equal(reply, &got) {
		t.Fatalf("got %v want %v", &got, reply)
	}
}
