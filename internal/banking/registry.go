package banking

// bicByBankCode maps German bank codes to BICs. It covers the Sparda
// institutes this converter is written for plus a few institutions that
// show up as counterparties in the fixtures.
var bicByBankCode = map[string]BIC{
	"12096597": "GENODEF1S10", // Sparda-Bank Berlin
	"20690500": "GENODEF1S11", // Sparda-Bank Hamburg
	"25090500": "GENODEF1S09", // Sparda-Bank Hannover
	"33060592": "GENODED1SPW", // Sparda-Bank West, Wuppertal
	"36060591": "GENODED1SPE", // Sparda-Bank West, Essen
	"37060590": "GENODED1SPK", // Sparda-Bank West, Köln
	"50090500": "GENODEF1S12", // Sparda-Bank Hessen
	"55090500": "GENODEF1S01", // Sparda-Bank Südwest
	"60090800": "GENODEF1S02", // Sparda-Bank Baden-Württemberg
	"70090500": "GENODEF1S04", // Sparda-Bank München
	"72090500": "GENODEF1S03", // Sparda-Bank Augsburg
	"75090500": "GENODEF1S05", // Sparda-Bank Ostbayern
	"76090500": "GENODEF1S06", // Sparda-Bank Nürnberg
	"37040044": "COBADEFFXXX", // Commerzbank Köln
}

var bankCodeByBIC = func() map[BIC]string {
	m := make(map[BIC]string, len(bicByBankCode))
	for code, bic := range bicByBankCode {
		m[bic] = code
	}
	return m
}()
