package catastro

import (
	"bytes"
	"encoding/json"
	"strings"
)

type dnprcResponse struct {
	Result *dnprcResult `json:"consulta_dnprcResult"`
}

type dnprcResult struct {
	Bico   *bico        `json:"bico"`
	Errors []errorEntry `json:"lerr"`
}

type errorEntry struct {
	Code        flexString `json:"cod"`
	Description flexString `json:"des"`
}

type bico struct {
	Bi *bienInmueble `json:"bi"`
}

type bienInmueble struct {
	Dt   *dataLocation `json:"dt"`
	Debi *economicData `json:"debi"`
}

type dataLocation struct {
	Province     flexString `json:"np"`
	Municipality flexString `json:"nm"`
	Locs         *struct {
		Lous *struct {
			Lourb *urbanLocation `json:"lourb"`
		} `json:"lous"`
	} `json:"locs"`
}

type urbanLocation struct {
	Address *struct {
		StreetName flexString `json:"nv"`
	} `json:"dir"`
	Interior *struct {
		Floor flexString `json:"pt"`
		Door  flexString `json:"pu"`
	} `json:"loint"`
	District flexString `json:"dp"`
}

type economicData struct {
	Use     flexString `json:"luso"`
	Surface flexString `json:"sfc"`
	Year    flexString `json:"ant"`
}

// flexString accepts JSON strings, numbers and null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) orNA() string {
	if s := strings.TrimSpace(string(f)); s != "" {
		return s
	}
	return NotAvailable
}
