package forecast

// Merge combines the basic and detailed interval resolved for one instant.
// Icon, window and rain come from basic; every attribute of detailed is
// copied under its own name. Either side may be nil; both nil gives nil.
func Merge(basic *BasicInterval, detailed *DetailedInterval) *Forecast {
	if basic == nil && detailed == nil {
		return nil
	}

	f := &Forecast{}

	if basic != nil {
		f.hasBase = true
		f.Icon = basic.Symbol.ID
		f.From = basic.From
		f.To = basic.To
		f.Rain = basic.Precipitation.Value + " " + basic.Precipitation.Unit

		if basic.MinTemperature != nil {
			a := basic.MinTemperature.clone()
			f.MinTemperature = &a
		}
		if basic.MaxTemperature != nil {
			a := basic.MaxTemperature.clone()
			f.MaxTemperature = &a
		}
	}

	if detailed != nil {
		f.Attributes = make(map[string]Attribute, len(detailed.Attributes))
		for _, a := range detailed.Attributes {
			f.Attributes[a.Name] = a.clone()
		}
	}

	return f
}
