// Package trigger renders FiveM trigger snippets from user-supplied event
// parameters and exposes the generator over HTTP
package trigger

import "fmt"

// Params describes a trigger to generate. Event1 is the server event name,
// Event2 is the JSON-encoded argument payload. CityName is used only to
// label the trigger; it never appears in the generated code.
type Params struct {
	Event1      string `json:"event1"`
	Event2      string `json:"event2"`
	CityName    string `json:"cityName"`
	IsAutomated bool   `json:"isAutomated"`
	Repetitions int    `json:"repetitions"`
	Delay       int    `json:"delay"`
}

// Generate renders the Lua snippet for the given parameters: a single
// TriggerServerEvent call, or a repeating loop when IsAutomated is set
func Generate(p Params) string {
	if p.IsAutomated {
		return fmt.Sprintf(`Citizen.CreateThread(function()
  local code = json.decode('%s')
  for iniciar = 1, %d do
      TriggerServerEvent("%s", table.unpack(code))
      Citizen.Wait(%d)
  end
end)`, p.Event2, p.Repetitions, p.Event1, p.Delay)
	}
	return fmt.Sprintf(`Citizen.CreateThread(function()
  local code = json.decode('%s')
  TriggerServerEvent("%s", table.unpack(code))
end)`, p.Event2, p.Event1)
}
