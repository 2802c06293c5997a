package notify

import "testing"

func TestFromToken_EmptyTokenIsNop(t *testing.T) {
	n, err := FromToken("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := n.(Nop); !ok {
		t.Errorf("notifier = %T, want Nop", n)
	}
	if err := n.Send("ignored"); err != nil {
		t.Errorf("Nop.Send() = %v, want nil", err)
	}
}
