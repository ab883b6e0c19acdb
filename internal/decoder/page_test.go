package decoder

import (
	"errors"
	"testing"
)

const publicPage = `<!DOCTYPE html>
<html><head><title>Campus Survey - Forms</title></head>
<body>
<script>var x = 1;</script>
<script type="text/javascript" nonce="abc">var FB_PUBLIC_LOAD_DATA_ = [null,[null,[[11,"What is your age?",null,2,[[1001,[["Under 18"],["18-24"],["25-34"]],1]]],[12,"Section",null,8,null],[13,"Comments",null,1,[[1003,null,0]]]],null,null,null,null,null,null,"Campus Survey"],"/forms/abc",null];</script>
</body></html>`

const wizPage = `<html><head><title>Wiz Form</title></head><body>
<script>window.WIZ_global_data = {"a":"str","b":[1],"c":[null,[null,[[21,"Do you agree?",null,2,[[2001,[["Yes"],["No"]],0]]]]],"/x"]};</script>
</body></html>`

func TestExtractPayload_PublicLoadData(t *testing.T) {
	f, err := DecodePage([]byte(publicPage), "")
	if err != nil {
		t.Fatalf("DecodePage: %v", err)
	}
	if f.Title != "Campus Survey" {
		t.Errorf("Title = %q, want %q", f.Title, "Campus Survey")
	}
	if len(f.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(f.Questions))
	}
	age := f.Questions[0]
	if age.EntryID != "1001" || !age.Required || len(age.Options) != 3 {
		t.Errorf("age question decoded as %+v", age)
	}
	if f.Questions[1].PageIndex != 1 {
		t.Errorf("Comments PageIndex = %d, want 1", f.Questions[1].PageIndex)
	}
}

func TestExtractPayload_WizFallback(t *testing.T) {
	p, err := ExtractPayload([]byte(wizPage))
	if err != nil {
		t.Fatalf("ExtractPayload: %v", err)
	}
	if p.DocTitle != "Wiz Form" {
		t.Errorf("DocTitle = %q, want %q", p.DocTitle, "Wiz Form")
	}

	f, err := DecodePage([]byte(wizPage), "")
	if err != nil {
		t.Fatalf("DecodePage: %v", err)
	}
	// No title in the payload, so the <title> element wins.
	if f.Title != "Wiz Form" {
		t.Errorf("Title = %q, want %q", f.Title, "Wiz Form")
	}
	if len(f.Questions) != 1 || len(f.Questions[0].Options) != 2 {
		t.Errorf("Questions = %+v", f.Questions)
	}
}

func TestExtractPayload_WizLastInDocumentOrder(t *testing.T) {
	page := `<html><body><script>window.WIZ_global_data = {` +
		`"z":[null,[null,[[31,"First",null,0,null]]]],` +
		`"a":[null,[null,[[32,"Second",null,0,null]]]],` +
		`"m":"tail"};</script></body></html>`

	f, err := DecodePage([]byte(page), "")
	if err != nil {
		t.Fatalf("DecodePage: %v", err)
	}
	if len(f.Questions) != 1 || f.Questions[0].Title != "Second" {
		t.Errorf("Questions = %+v, want the payload under \"a\"", f.Questions)
	}
}

func TestExtractPayload_NotFound(t *testing.T) {
	_, err := ExtractPayload([]byte(`<html><body><p>nothing</p></body></html>`))
	if !errors.Is(err, ErrPayloadNotFound) {
		t.Errorf("err = %v, want ErrPayloadNotFound", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	f, err := DecodeJSON([]byte(`[null,[null,[[1,"Name",null,0,null]]]]`), "Saved")
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if f.Title != "Saved" || len(f.Questions) != 1 {
		t.Errorf("form = %+v", f)
	}

	if _, err := DecodeJSON([]byte(`{not json`), ""); !errors.Is(err, ErrMalformedSource) {
		t.Errorf("err = %v, want ErrMalformedSource", err)
	}
}

func TestDecodeJSON_LargeIdentifiers(t *testing.T) {
	data := `[null,[null,[[9007199254740993,"Pick one",null,2,[[1234567890123456789,[["A"],["B"]],1]]]]]]`

	f, err := DecodeJSON([]byte(data), "")
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(f.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(f.Questions))
	}
	q := f.Questions[0]
	if q.ID != "9007199254740993" {
		t.Errorf("ID = %q, want 9007199254740993", q.ID)
	}
	if q.EntryID != "1234567890123456789" {
		t.Errorf("EntryID = %q, want 1234567890123456789", q.EntryID)
	}
	if !q.Required {
		t.Error("Required = false, want true")
	}
}

func TestDecodeSource(t *testing.T) {
	payload := `[null,[null,[[1,"Name",null,0,null]]]]`

	f, err := DecodeSource([]byte("  \n"+payload), "Bare")
	if err != nil {
		t.Fatalf("DecodeSource(json): %v", err)
	}
	if f.Title != "Bare" || len(f.Questions) != 1 {
		t.Errorf("form = %+v", f)
	}

	page := `<html><head><title>From Page</title></head><body><script>var FB_PUBLIC_LOAD_DATA_ = ` + payload + `;</script></body></html>`
	f, err = DecodeSource([]byte(page), "")
	if err != nil {
		t.Fatalf("DecodeSource(page): %v", err)
	}
	if f.Title != "From Page" {
		t.Errorf("Title = %q, want the page title", f.Title)
	}
}
