package hop

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "array", body: `[{"ip":"1.1.1.1"},{"ip":"2.2.2.2"}]`, want: "hops"},
		{name: "empty array", body: ` [] `, want: "hops"},
		{name: "error object", body: `{"error":"Traceroute timed out."}`, want: "server_error"},
		{name: "numeric error", body: `{"error":503}`, want: "server_error"},
		{name: "empty error", body: `{"error":""}`, want: "malformed"},
		{name: "false error", body: `{"error":false}`, want: "malformed"},
		{name: "other object", body: `{"foo":1}`, want: "malformed"},
		{name: "number", body: `42`, want: "malformed"},
		{name: "null", body: `null`, want: "malformed"},
		{name: "html", body: `<html>bad gateway</html>`, want: "malformed"},
		{name: "truncated array", body: `[{"ip":"1.1.1.1"`, want: "malformed"},
		{name: "empty", body: ``, want: "malformed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			switch Classify([]byte(tc.body)).(type) {
			case Hops:
				got = "hops"
			case ServerError:
				got = "server_error"
			case Malformed:
				got = "malformed"
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestClassify_ArrayKeepsOrder(t *testing.T) {
	resp, ok := Classify([]byte(`[{"ip":"b"},{"ip":"a"}]`)).(Hops)
	if !ok {
		t.Fatalf("expected Hops")
	}
	if len(resp.Hops) != 2 || Text(resp.Hops[0].IP) != "b" || Text(resp.Hops[1].IP) != "a" {
		t.Fatalf("unexpected hops %+v", resp.Hops)
	}
}

func TestErrorMessage(t *testing.T) {
	msg, ok := ErrorMessage([]byte(`{"error":"Traceroute timed out."}`))
	if !ok || msg != "Traceroute timed out." {
		t.Fatalf("expected message, got %q ok=%v", msg, ok)
	}

	msg, ok = ErrorMessage([]byte(`{"error":{"code":"x"}}`))
	if !ok || msg != `{"code":"x"}` {
		t.Fatalf("expected compacted object text, got %q ok=%v", msg, ok)
	}

	if _, ok := ErrorMessage([]byte(`[{"error":"x"}]`)); ok {
		t.Fatalf("expected arrays to carry no error message")
	}
	if _, ok := ErrorMessage([]byte(`{"error":null}`)); ok {
		t.Fatalf("expected null error to be ignored")
	}
}
