package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"BitcoinClicker/internal/model"
)

//go:embed default.yaml
var defaultCatalog []byte

// Catalog is the immutable set of purchasable items, loaded once at startup.
type Catalog struct {
	Hardware    []model.HardwareSpec   `yaml:"hardware"`
	Generators  []model.GeneratorSpec  `yaml:"generators"`
	Upgrades    []model.UpgradeSpec    `yaml:"upgrades"`
	Research    []model.ResearchNode   `yaml:"research"`
	BlackMarket []model.MarketItemSpec `yaml:"black_market"`

	hardware    map[string]int
	generators  map[string]int
	upgrades    map[string]int
	research    map[string]int
	blackMarket map[string]int
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file. An empty path uses the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes, indexes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return c, nil
}

func (c *Catalog) index() error {
	var err error
	if c.hardware, err = indexIDs("hardware", len(c.Hardware), func(i int) string { return c.Hardware[i].ID }); err != nil {
		return err
	}
	if c.generators, err = indexIDs("generator", len(c.Generators), func(i int) string { return c.Generators[i].ID }); err != nil {
		return err
	}
	if c.upgrades, err = indexIDs("upgrade", len(c.Upgrades), func(i int) string { return c.Upgrades[i].ID }); err != nil {
		return err
	}
	if c.research, err = indexIDs("research", len(c.Research), func(i int) string { return c.Research[i].ID }); err != nil {
		return err
	}
	if c.blackMarket, err = indexIDs("black market", len(c.BlackMarket), func(i int) string { return c.BlackMarket[i].ID }); err != nil {
		return err
	}
	return nil
}

func indexIDs(kind string, n int, id func(int) string) (map[string]int, error) {
	idx := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := id(i)
		if key == "" {
			return nil, fmt.Errorf("%s entry %d has no id", kind, i)
		}
		if _, dup := idx[key]; dup {
			return nil, fmt.Errorf("duplicate %s id %q", kind, key)
		}
		idx[key] = i
	}
	return idx, nil
}

// Validate checks costs, effect descriptors, requirement references and the
// research prerequisite graph.
func (c *Catalog) Validate() error {
	for _, h := range c.Hardware {
		if h.BaseCost <= 0 || h.CostMultiplier < 0 {
			return fmt.Errorf("hardware %s: invalid cost curve", h.ID)
		}
		if h.BaseHashrate < 0 || h.BasePower < 0 {
			return fmt.Errorf("hardware %s: hashrate and power must not be negative", h.ID)
		}
		if err := c.validateRequirement(h.Requirement); err != nil {
			return fmt.Errorf("hardware %s: %w", h.ID, err)
		}
	}
	for _, g := range c.Generators {
		if g.BaseCost <= 0 || g.CostMultiplier < 0 {
			return fmt.Errorf("generator %s: invalid cost curve", g.ID)
		}
		if g.BaseCapacity < 0 {
			return fmt.Errorf("generator %s: capacity must not be negative", g.ID)
		}
		if err := c.validateRequirement(g.Requirement); err != nil {
			return fmt.Errorf("generator %s: %w", g.ID, err)
		}
	}
	for _, u := range c.Upgrades {
		if u.Cost <= 0 || u.CostMultiplier < 0 || u.MaxPurchases < 0 {
			return fmt.Errorf("upgrade %s: invalid cost curve", u.ID)
		}
		for _, e := range u.Effects {
			if err := c.validateEffect(e); err != nil {
				return fmt.Errorf("upgrade %s: %w", u.ID, err)
			}
		}
		if err := c.validateRequirement(u.Requirement); err != nil {
			return fmt.Errorf("upgrade %s: %w", u.ID, err)
		}
	}
	for _, r := range c.Research {
		if r.Cost <= 0 {
			return fmt.Errorf("research %s: cost must be positive", r.ID)
		}
		for _, e := range r.Effects {
			if err := c.validateEffect(e); err != nil {
				return fmt.Errorf("research %s: %w", r.ID, err)
			}
		}
		for _, req := range r.Requires {
			if _, ok := c.research[req]; !ok {
				return fmt.Errorf("research %s: unknown prerequisite %q", r.ID, req)
			}
		}
	}
	if err := c.checkResearchCycles(); err != nil {
		return err
	}
	for _, item := range c.BlackMarket {
		if err := validateMarketItem(item); err != nil {
			return fmt.Errorf("black market %s: %w", item.ID, err)
		}
	}
	return nil
}

func (c *Catalog) validateEffect(e model.Effect) error {
	switch e.Kind {
	case model.EffectHashrateBonus, model.EffectPowerReduction, model.EffectPowerIncrease,
		model.EffectConversionBonus, model.EffectClickMultiplier, model.EffectAutoClick:
		if e.Factor <= 0 {
			return fmt.Errorf("effect %s needs a positive factor", e.Kind)
		}
	case model.EffectUnlockHardware:
		if _, ok := c.hardware[e.Target]; !ok {
			return fmt.Errorf("effect %s targets unknown hardware %q", e.Kind, e.Target)
		}
	case model.EffectPerfectEfficiency:
	default:
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}
	return nil
}

func (c *Catalog) validateRequirement(req *model.Requirement) error {
	if req == nil {
		return nil
	}
	if req.TotalBTC < 0 || req.HashPoints < 0 {
		return fmt.Errorf("requirement thresholds must not be negative")
	}
	if req.ResearchNode != "" {
		if _, ok := c.research[req.ResearchNode]; !ok {
			return fmt.Errorf("requirement references unknown research %q", req.ResearchNode)
		}
	}
	return nil
}

func validateMarketItem(item model.MarketItemSpec) error {
	if item.Cost <= 0 {
		return fmt.Errorf("cost must be positive")
	}
	switch item.Action {
	case model.ActionBuff:
		b := item.Buff
		if b == nil {
			return fmt.Errorf("buff action without buff")
		}
		if b.ID == "" || b.Factor <= 0 || b.Duration <= 0 {
			return fmt.Errorf("buff needs id, positive factor and duration")
		}
		switch b.Target {
		case model.BuffHashrate, model.BuffClick, model.BuffBTC, model.BuffPowerSurge, model.BuffVolatility:
		default:
			return fmt.Errorf("unknown buff target %q", b.Target)
		}
	case model.ActionQuantumGamble, model.ActionMysteryBox, model.ActionTimeWarp:
	default:
		return fmt.Errorf("unknown action %q", item.Action)
	}
	return nil
}

// checkResearchCycles walks the prerequisite graph depth first.
func (c *Catalog) checkResearchCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(c.Research))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("research prerequisite cycle at %q", id)
		case done:
			return nil
		}
		state[id] = visiting
		for _, req := range c.Research[c.research[id]].Requires {
			if err := visit(req); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}
	for _, r := range c.Research {
		if err := visit(r.ID); err != nil {
			return err
		}
	}
	return nil
}

// HardwareByID looks up a hardware spec.
func (c *Catalog) HardwareByID(id string) (model.HardwareSpec, bool) {
	i, ok := c.hardware[id]
	if !ok {
		return model.HardwareSpec{}, false
	}
	return c.Hardware[i], true
}

// GeneratorByID looks up a generator spec.
func (c *Catalog) GeneratorByID(id string) (model.GeneratorSpec, bool) {
	i, ok := c.generators[id]
	if !ok {
		return model.GeneratorSpec{}, false
	}
	return c.Generators[i], true
}

// UpgradeByID looks up an upgrade spec.
func (c *Catalog) UpgradeByID(id string) (model.UpgradeSpec, bool) {
	i, ok := c.upgrades[id]
	if !ok {
		return model.UpgradeSpec{}, false
	}
	return c.Upgrades[i], true
}

// ResearchByID looks up a research node.
func (c *Catalog) ResearchByID(id string) (model.ResearchNode, bool) {
	i, ok := c.research[id]
	if !ok {
		return model.ResearchNode{}, false
	}
	return c.Research[i], true
}

// MarketItemByID looks up a black market item.
func (c *Catalog) MarketItemByID(id string) (model.MarketItemSpec, bool) {
	i, ok := c.blackMarket[id]
	if !ok {
		return model.MarketItemSpec{}, false
	}
	return c.BlackMarket[i], true
}

// BaseUnlocks returns the ids flagged as unlocked from the start of a run,
// in catalog order.
func (c *Catalog) BaseUnlocks() (hardware, generators, upgrades []string) {
	hardware, generators, upgrades = []string{}, []string{}, []string{}
	for _, h := range c.Hardware {
		if h.Unlocked {
			hardware = append(hardware, h.ID)
		}
	}
	for _, g := range c.Generators {
		if g.Unlocked {
			generators = append(generators, g.ID)
		}
	}
	for _, u := range c.Upgrades {
		if u.Unlocked {
			upgrades = append(upgrades, u.ID)
		}
	}
	return hardware, generators, upgrades
}
