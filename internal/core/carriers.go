package core

import (
	"net/url"
	"strings"
)

// Carrier describes a parcel carrier and how to link to its tracking page.
// URLTemplate contains a single {tracking} placeholder.
type Carrier struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	URLTemplate string `json:"-"`
}

// TrackingURL interpolates trackingNumber into the carrier's template.
func (c Carrier) TrackingURL(trackingNumber string) string {
	return strings.Replace(c.URLTemplate, "{tracking}", url.QueryEscape(trackingNumber), 1)
}

var carriers = []struct {
	carrier Carrier
	aliases []string
}{
	{
		carrier: Carrier{Code: "cj", Name: "CJ대한통운", URLTemplate: "https://trace.cjlogistics.com/next/tracking.html?wblNo={tracking}"},
		aliases: []string{"cj대한통운", "대한통운", "cj", "cjlogistics", "cj대한통운택배", "cjkoreaexpress"},
	},
	{
		carrier: Carrier{Code: "hanjin", Name: "한진택배", URLTemplate: "https://www.hanjin.com/kor/CMS/DeliveryMgr/WaybillResult.do?mCode=MN038&schLang=KR&wblnumText2={tracking}"},
		aliases: []string{"한진택배", "한진", "hanjin", "hanjinexpress"},
	},
	{
		carrier: Carrier{Code: "lotte", Name: "롯데택배", URLTemplate: "https://www.lotteglogis.com/home/reservation/tracking/linkView?InvNo={tracking}"},
		aliases: []string{"롯데택배", "롯데글로벌로지스", "롯데", "lotte", "lotteglogis", "lotteglobal"},
	},
	{
		carrier: Carrier{Code: "epost", Name: "우체국택배", URLTemplate: "https://service.epost.go.kr/trace.RetrieveDomRigiTraceList.comm?sid1={tracking}"},
		aliases: []string{"우체국택배", "우체국", "epost", "koreapost"},
	},
	{
		carrier: Carrier{Code: "logen", Name: "로젠택배", URLTemplate: "https://www.ilogen.com/web/personal/trace/{tracking}"},
		aliases: []string{"로젠택배", "로젠", "logen", "ilogen"},
	},
	{
		carrier: Carrier{Code: "sf", Name: "顺丰速运", URLTemplate: "https://www.sf-express.com/chn/sc/waybill/waybill-detail/{tracking}"},
		aliases: []string{"顺丰速运", "顺丰", "sf", "sfexpress"},
	},
}

var carrierIndex = buildCarrierIndex()

func buildCarrierIndex() map[string]Carrier {
	idx := make(map[string]Carrier)
	for _, c := range carriers {
		idx[normalizeCarrierAlias(c.carrier.Code)] = c.carrier
		idx[normalizeCarrierAlias(c.carrier.Name)] = c.carrier
		for _, a := range c.aliases {
			idx[normalizeCarrierAlias(a)] = c.carrier
		}
	}
	return idx
}

func normalizeCarrierAlias(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "", ".", "").Replace(s)
}

// LookupCarrier resolves a carrier by any known alias, ignoring case, spaces
// and dashes.
func LookupCarrier(name string) (Carrier, bool) {
	c, ok := carrierIndex[normalizeCarrierAlias(name)]
	return c, ok
}

// Carriers lists the known carriers in display order.
func Carriers() []Carrier {
	out := make([]Carrier, len(carriers))
	for i, c := range carriers {
		out[i] = c.carrier
	}
	return out
}
