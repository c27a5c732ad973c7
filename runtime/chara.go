package eruntime

// RuntimeCharacter is one roster entry; ID is its master-data id.
type RuntimeCharacter struct {
	ID int64
}

// masterRow looks up a master data row and its display name, the first
// field in both the character and the item tables.
func (vm *VM) masterRow(category string, id int64) (name string, fields []string, ok bool) {
	fields, ok = vm.master.Lookup(category, id)
	if len(fields) > 0 {
		name = fields[0]
	}
	return name, fields, ok
}

func (vm *VM) Characters() []RuntimeCharacter {
	return append([]RuntimeCharacter(nil), vm.characters...)
}

func (vm *VM) refreshCharacterGlobals() {
	vm.env.Set("CHARANUM", Int(int64(len(vm.characters))))
}

// addCharacter appends id to the roster and seeds NAME and CALLNAME at the
// new index from the CHARA master data. It returns the new index.
func (vm *VM) addCharacter(id int64) int64 {
	vm.characters = append(vm.characters, RuntimeCharacter{ID: id})
	idx := int64(len(vm.characters) - 1)
	name, fields, ok := vm.masterRow("CHARA", id)
	if !ok {
		vm.log.Warn("character missing from master data", "id", id)
	}
	callname := name
	if len(fields) > 1 && fields[1] != "" {
		callname = fields[1]
	}
	vm.env.Set("NO", Int(id), idx)
	vm.env.Set("NAME", Str(name), idx)
	vm.env.Set("CALLNAME", Str(callname), idx)
	vm.refreshCharacterGlobals()
	return idx
}

// seedMaster registers character 0 as MASTER when the master data has it.
func (vm *VM) seedMaster() {
	if _, ok := vm.master.Lookup("CHARA", 0); !ok {
		vm.refreshCharacterGlobals()
		return
	}
	idx := vm.addCharacter(0)
	vm.env.Set("MASTER", Int(idx))
}

func builtinAddChara(vm *VM, arg string) (resultKind, error) {
	id, err := vm.evalArg("ADDCHARA", arg)
	if err != nil {
		return resultNone, err
	}
	vm.env.Set("RESULT", Int(vm.addCharacter(id.Int64())))
	return resultNone, nil
}
